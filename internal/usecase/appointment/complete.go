package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/events"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type CompleteAppointmentInput struct {
	AppointmentID uint

	// Paid overrides the automatic payment flag when set.
	Paid          *bool
	PaymentMethod string
}

type CompleteAppointment struct {
	deps Deps
}

func NewCompleteAppointment(deps Deps) *CompleteAppointment {
	return &CompleteAppointment{deps: deps.withDefaults()}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	in CompleteAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.deps.transition(ctx, "complete", orgID, actor, in.AppointmentID, audit.KindAppointmentCompleted,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanManage(actor, ap); err != nil {
				return nil, err
			}
			if err := domain.Complete(ap, now, in.Paid); err != nil {
				return nil, err
			}
			if in.PaymentMethod != "" {
				ap.PaymentMethod = in.PaymentMethod
			}
			return map[string]any{
				"paid":        ap.Paid,
				"final_price": ap.FinalPrice.StringFixed(2),
			}, nil
		})
	if err != nil {
		return nil, err
	}

	// post-commit: a failed publish does not undo the completion
	if err := uc.deps.Hook.AppointmentCompleted(ctx, events.Completed{
		OrganizationID: orgID,
		AppointmentID:  ap.ID,
		ClientID:       ap.ClientID,
		ProfessionalID: ap.ProfessionalID,
		ServiceID:      ap.ServiceID,
		FinalPrice:     ap.FinalPrice,
		Paid:           ap.Paid,
		CompletedAt:    *ap.CompletedAt,
	}); err != nil {
		uc.deps.Log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("completion hook failed")
	}

	return ap, nil
}
