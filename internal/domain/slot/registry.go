package slot

import (
	"context"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

type State string

const (
	StateAvailable State = "available"
	StateHeld      State = "held"
	StateOccupied  State = "occupied"
)

// BindableStates are the states a slot may be bound from.
func BindableStates() []State {
	return []State{StateAvailable, StateHeld}
}

func (s State) Bindable() bool {
	return s == StateAvailable || s == StateHeld
}

// Record is the registry's view of a stored slot.
type Record struct {
	ID            uint
	State         State
	Version       uint
	AppointmentID *uint
}

// Store is implemented by the unit of work. CompareAndBind must be a single
// conditional write on (state, version) and report whether it matched.
type Store interface {
	LoadSlot(ctx context.Context, slotID uint) (Record, error)
	CompareAndBind(ctx context.Context, slotID, appointmentID, expectedVersion uint) (bool, error)
	ForceRelease(ctx context.Context, slotID uint) error
}

var ErrConflict = httperr.Conflict("slot_conflict")

type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// Bind occupies the slot for appointmentID. When expectedVersion is nil the
// version read here is the expectation.
func (r *Registry) Bind(
	ctx context.Context,
	slotID uint,
	appointmentID uint,
	expectedVersion *uint,
) error {

	rec, err := r.store.LoadSlot(ctx, slotID)
	if err != nil {
		return err
	}

	if !rec.State.Bindable() {
		return ErrConflict
	}

	version := rec.Version
	if expectedVersion != nil {
		if *expectedVersion != rec.Version {
			return ErrConflict
		}
		version = *expectedVersion
	}

	ok, err := r.store.CompareAndBind(ctx, slotID, appointmentID, version)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

// Release frees the slot. Releasing an already free slot is not an error.
func (r *Registry) Release(ctx context.Context, slotID uint) error {
	return r.store.ForceRelease(ctx, slotID)
}
