package slot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

type memSlots struct {
	mu    sync.Mutex
	slots map[uint]*Record
}

func newMemSlots(ids ...uint) *memSlots {
	m := &memSlots{slots: map[uint]*Record{}}
	for _, id := range ids {
		m.slots[id] = &Record{ID: id, State: StateAvailable}
	}
	return m
}

func (m *memSlots) LoadSlot(_ context.Context, id uint) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.slots[id]
	if !ok {
		return Record{}, httperr.NotFoundErr("slot_not_found")
	}
	return *rec, nil
}

func (m *memSlots) CompareAndBind(_ context.Context, id, apID, version uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.slots[id]
	if rec.Version != version || !rec.State.Bindable() {
		return false, nil
	}
	rec.State = StateOccupied
	rec.AppointmentID = &apID
	rec.Version++
	return true, nil
}

func (m *memSlots) ForceRelease(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.slots[id]
	rec.State = StateAvailable
	rec.AppointmentID = nil
	rec.Version++
	return nil
}

func TestBindOccupiesAndIncrementsVersion(t *testing.T) {
	store := newMemSlots(1)
	reg := NewRegistry(store)

	require.NoError(t, reg.Bind(context.Background(), 1, 10, nil))

	rec, _ := store.LoadSlot(context.Background(), 1)
	assert.Equal(t, StateOccupied, rec.State)
	assert.Equal(t, uint(1), rec.Version)
	require.NotNil(t, rec.AppointmentID)
	assert.Equal(t, uint(10), *rec.AppointmentID)
}

func TestBindFromHeldIsAllowed(t *testing.T) {
	store := newMemSlots(1)
	store.slots[1].State = StateHeld

	require.NoError(t, NewRegistry(store).Bind(context.Background(), 1, 10, nil))
}

func TestBindOccupiedSlotConflicts(t *testing.T) {
	store := newMemSlots(1)
	reg := NewRegistry(store)
	require.NoError(t, reg.Bind(context.Background(), 1, 10, nil))

	err := reg.Bind(context.Background(), 1, 11, nil)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
}

func TestBindStaleVersionConflicts(t *testing.T) {
	store := newMemSlots(1)
	store.slots[1].Version = 3

	stale := uint(2)
	err := NewRegistry(store).Bind(context.Background(), 1, 10, &stale)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, StateAvailable, store.slots[1].State)
}

func TestReleaseIsIdempotent(t *testing.T) {
	store := newMemSlots(1)
	reg := NewRegistry(store)
	require.NoError(t, reg.Bind(context.Background(), 1, 10, nil))

	require.NoError(t, reg.Release(context.Background(), 1))
	require.NoError(t, reg.Release(context.Background(), 1))

	rec, _ := store.LoadSlot(context.Background(), 1)
	assert.Equal(t, StateAvailable, rec.State)
	assert.Nil(t, rec.AppointmentID)

	require.NoError(t, reg.Bind(context.Background(), 1, 20, nil))
}

func TestConcurrentBindExactlyOneWins(t *testing.T) {
	for round := 0; round < 50; round++ {
		store := newMemSlots(1)
		reg := NewRegistry(store)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = reg.Bind(context.Background(), 1, uint(100+i), nil)
			}(i)
		}
		wg.Wait()

		wins, conflicts := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case httperr.IsKind(err, httperr.KindConflict):
				conflicts++
			}
		}
		require.Equal(t, 1, wins)
		require.Equal(t, 1, conflicts)
	}
}
