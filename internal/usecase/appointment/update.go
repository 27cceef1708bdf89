package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type UpdateAppointmentInput struct {
	AppointmentID uint
	Patch         domain.Patch
}

// UpdateAppointment applies a validated patch of non-transition fields.
type UpdateAppointment struct {
	deps Deps
}

func NewUpdateAppointment(deps Deps) *UpdateAppointment {
	return &UpdateAppointment{deps: deps.withDefaults()}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	return uc.deps.transition(ctx, "update", orgID, actor, in.AppointmentID, audit.KindAppointmentUpdated,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanManage(actor, ap); err != nil {
				return nil, err
			}
			if err := in.Patch.Validate(ap); err != nil {
				return nil, err
			}
			in.Patch.Apply(ap)
			return map[string]any{
				"fields":      in.Patch.Fields(),
				"final_price": ap.FinalPrice.StringFixed(2),
			}, nil
		})
}
