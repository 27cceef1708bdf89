package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type ConfirmAppointment struct {
	deps Deps
}

func NewConfirmAppointment(deps Deps) *ConfirmAppointment {
	return &ConfirmAppointment{deps: deps.withDefaults()}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	return uc.deps.transition(ctx, "confirm", orgID, actor, appointmentID, audit.KindAppointmentConfirmed,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanClientAct(actor, ap, now, org.LeadTime()); err != nil {
				return nil, err
			}
			return nil, domain.Confirm(ap)
		})
}
