package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func TestAvailabilityRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	av := NewAvailability(&memCache{m: map[string][]byte{}}, time.Minute)

	var got []string
	ticket, ok, err := av.Load(ctx, 1, "p2:2026-03-02:s3", &got)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, av.Store(ctx, ticket, []string{"09:00"}))

	_, ok, err = av.Load(ctx, 1, "p2:2026-03-02:s3", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"09:00"}, got)

	require.NoError(t, av.Invalidate(ctx, 2))
	_, ok, _ = av.Load(ctx, 1, "p2:2026-03-02:s3", &got)
	assert.True(t, ok, "other organizations keep their entries")

	require.NoError(t, av.Invalidate(ctx, 1))
	_, ok, err = av.Load(ctx, 1, "p2:2026-03-02:s3", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreAfterInvalidateIsNotServed(t *testing.T) {
	ctx := context.Background()
	av := NewAvailability(&memCache{m: map[string][]byte{}}, time.Minute)

	var got []string
	ticket, ok, err := av.Load(ctx, 1, "p2:2026-03-02:s3", &got)
	require.NoError(t, err)
	require.False(t, ok)

	// a booking commits while the listing is being computed
	require.NoError(t, av.Invalidate(ctx, 1))
	require.NoError(t, av.Store(ctx, ticket, []string{"09:00"}))

	_, ok, err = av.Load(ctx, 1, "p2:2026-03-02:s3", &got)
	require.NoError(t, err)
	assert.False(t, ok, "listing computed before the invalidation must not be served")
}

func TestZeroTicketStoreIsIgnored(t *testing.T) {
	mc := &memCache{m: map[string][]byte{}}
	av := NewAvailability(mc, time.Minute)

	require.NoError(t, av.Store(context.Background(), Ticket{}, []string{"09:00"}))
	assert.Empty(t, mc.m)
}

func TestNoopNeverHits(t *testing.T) {
	av := NewAvailability(nil, time.Minute)
	ticket, _, err := av.Load(context.Background(), 1, "k", new(int))
	require.NoError(t, err)
	require.NoError(t, av.Store(context.Background(), ticket, 1))

	var v int
	_, ok, err := av.Load(context.Background(), 1, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}
