package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Availability caches free-interval listings per organization. Entries are
// keyed under a per-organization generation; Invalidate rotates it so every
// listing of the organization goes stale at once.
type Availability struct {
	c   Cache
	ttl time.Duration
}

func NewAvailability(c Cache, ttl time.Duration) *Availability {
	if c == nil {
		c = NewNoop()
	}
	return &Availability{c: c, ttl: ttl}
}

func genKey(orgID uint) string {
	return fmt.Sprintf("availability:gen:%d", orgID)
}

func (a *Availability) key(ctx context.Context, orgID uint, parts string) (string, error) {
	gen, _, err := a.c.Get(ctx, genKey(orgID))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("availability:%d:%s:%s", orgID, gen, parts), nil
}

// Ticket pins the generation a listing was looked up under. A listing
// computed after a miss is stored under that generation, so an Invalidate
// racing the computation leaves it unreachable.
type Ticket struct {
	key string
}

// Load decodes a cached listing into out. ok is false on a miss; the
// returned Ticket is what Store expects for the recomputed value.
func (a *Availability) Load(ctx context.Context, orgID uint, parts string, out any) (Ticket, bool, error) {
	k, err := a.key(ctx, orgID, parts)
	if err != nil {
		return Ticket{}, false, err
	}
	t := Ticket{key: k}
	raw, ok, err := a.c.Get(ctx, k)
	if err != nil || !ok {
		return t, false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return t, false, nil
	}
	return t, true, nil
}

// Store writes v under the ticket's generation. A zero Ticket is ignored.
func (a *Availability) Store(ctx context.Context, t Ticket, v any) error {
	if t.key == "" {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.c.Set(ctx, t.key, raw, a.ttl)
}

func (a *Availability) Invalidate(ctx context.Context, orgID uint) error {
	return a.c.Set(ctx, genKey(orgID), []byte(uuid.NewString()), 0)
}
