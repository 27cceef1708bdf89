package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// CheckInAppointment records that the client arrived.
type CheckInAppointment struct {
	deps Deps
}

func NewCheckInAppointment(deps Deps) *CheckInAppointment {
	return &CheckInAppointment{deps: deps.withDefaults()}
}

func (uc *CheckInAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	return uc.deps.transition(ctx, "check_in", orgID, actor, appointmentID, audit.KindAppointmentCheckedIn,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanManage(actor, ap); err != nil {
				return nil, err
			}
			return nil, domain.CheckIn(ap, now)
		})
}
