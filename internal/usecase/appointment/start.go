package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type StartAppointment struct {
	deps Deps
}

func NewStartAppointment(deps Deps) *StartAppointment {
	return &StartAppointment{deps: deps.withDefaults()}
}

func (uc *StartAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	return uc.deps.transition(ctx, "start", orgID, actor, appointmentID, audit.KindAppointmentStarted,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanManage(actor, ap); err != nil {
				return nil, err
			}
			if err := domain.Start(ap, now); err != nil {
				return nil, err
			}
			return map[string]any{"actual_start_at": now.Format(time.RFC3339)}, nil
		})
}
