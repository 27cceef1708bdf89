package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

type RescheduleAppointmentInput struct {
	AppointmentID uint

	Date string
	Time string

	SlotID      *uint
	SlotVersion *uint
}

// RescheduleAppointment moves an appointment to a new start on the same
// professional. The booked length is kept.
type RescheduleAppointment struct {
	deps Deps
}

func NewRescheduleAppointment(deps Deps) *RescheduleAppointment {
	return &RescheduleAppointment{deps: deps.withDefaults()}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	return uc.deps.transition(ctx, "reschedule", orgID, actor, in.AppointmentID, audit.KindAppointmentRescheduled,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanClientAct(actor, ap, now, org.LeadTime()); err != nil {
				return nil, err
			}
			if !booking.Can(ap.Status, booking.EventReschedule) {
				_, err := booking.Next(ap.Status, booking.EventReschedule)
				return nil, err
			}

			start, err := parseLocal(in.Date, in.Time, timezone.Location(org.Timezone))
			if err != nil {
				return nil, err
			}
			if !start.After(now) {
				return nil, httperr.Validation("start_in_past", "o horário escolhido já passou")
			}
			if !actor.IsStaff() && !actor.IsAutomation() && start.Before(now.Add(org.LeadTime())) {
				return nil, httperr.Validation("too_soon", "o agendamento exige antecedência mínima")
			}
			end := start.Add(ap.EndTime.Sub(ap.StartTime))

			if err := lockProfessional(ctx, tx, ap.ProfessionalID); err != nil {
				return nil, err
			}

			sl, err := resolveSlot(ctx, tx, ap.ProfessionalID, start, in.SlotID)
			if err != nil {
				return nil, err
			}

			self := ap.ID
			if err := uc.deps.validate(ctx, tx, schedule.Request{
				ProfessionalID:       ap.ProfessionalID,
				Start:                start,
				End:                  end,
				ExcludeAppointmentID: &self,
			}); err != nil {
				return nil, err
			}

			meta := map[string]any{
				"old_start": ap.StartTime.Format(time.RFC3339),
				"new_start": start.Format(time.RFC3339),
				"old_slot":  ap.SlotID,
			}

			if err := releaseSlot(ctx, tx, ap); err != nil {
				return nil, err
			}

			var newSlotID *uint
			if sl != nil {
				expected := in.SlotVersion
				// the release above bumped the version when it is the same
				// slot, so the caller's version is checked against the read
				// taken before it
				if ap.SlotID != nil && *ap.SlotID == sl.ID {
					if expected != nil && *expected != sl.Version {
						return nil, slot.ErrConflict
					}
					expected = nil
					if sl, err = tx.GetSlot(ctx, sl.ID); err != nil {
						return nil, err
					}
				}
				if err := bindSlot(ctx, tx, sl, ap.ID, expected); err != nil {
					return nil, err
				}
				newSlotID = &sl.ID
			}
			meta["new_slot"] = newSlotID

			return meta, domain.Reschedule(ap, start, end, newSlotID)
		})
}
