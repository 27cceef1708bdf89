package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type CancelAppointmentInput struct {
	AppointmentID uint
	Reason        string
}

type CancelAppointment struct {
	deps Deps
}

func NewCancelAppointment(deps Deps) *CancelAppointment {
	return &CancelAppointment{deps: deps.withDefaults()}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	return uc.deps.transition(ctx, "cancel", orgID, actor, in.AppointmentID, audit.KindAppointmentCancelled,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanClientAct(actor, ap, now, org.LeadTime()); err != nil {
				return nil, err
			}
			if err := domain.Cancel(ap, now, in.Reason); err != nil {
				return nil, err
			}
			if err := releaseSlot(ctx, tx, ap); err != nil {
				return nil, err
			}
			return map[string]any{"reason": in.Reason, "slot_id": ap.SlotID}, nil
		})
}
