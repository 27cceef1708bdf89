package appointment

import (
	"context"
	"errors"
	"strings"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/validators"
)

// ClientInput identifies the client of a booking: an existing id, or a
// phone to look up, or the data for an inline record.
type ClientInput struct {
	ID    *uint
	Name  string
	Phone string
	Email string
}

// resolveClient finds or creates the client. A client actor always books
// for itself.
func resolveClient(ctx context.Context, tx domain.Tx, actor domain.Actor, in ClientInput, allowAnonymous bool) (*models.Client, error) {
	if actor.IsClient() {
		if actor.ClientID == nil {
			return nil, httperr.Forbidden("client_profile_missing")
		}
		in.ID = actor.ClientID
	}

	if in.ID != nil {
		c, err := tx.GetClient(ctx, *in.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("client_not_found")
		}
		return c, err
	}

	phone := validators.NormalizePhone(in.Phone)
	name := strings.TrimSpace(in.Name)

	if phone == "" {
		if !allowAnonymous {
			return nil, httperr.Validation("client_phone_required", "telefone do cliente é obrigatório")
		}
	} else {
		if !validators.IsPhone(phone) {
			return nil, httperr.Validation("invalid_phone", "telefone inválido")
		}
		c, err := tx.FindClientByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}

	if name == "" {
		if phone == "" {
			return nil, httperr.Validation("client_name_required", "nome do cliente é obrigatório")
		}
		name = "Cliente " + phone
	}

	c := &models.Client{
		Name:  name,
		Phone: phone,
		Email: strings.TrimSpace(in.Email),
	}
	if err := tx.CreateClient(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
