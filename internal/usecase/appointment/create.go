package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ProfessionalID uint
	ServiceID      uint
	Client         ClientInput

	Date string
	Time string

	// SlotID pins the booking to a slot; SlotVersion is the version the
	// caller saw, if any.
	SlotID      *uint
	SlotVersion *uint

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	deps Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{deps: deps.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if actor.Role == models.RoleProfessional && (actor.ProfessionalID == nil || *actor.ProfessionalID != in.ProfessionalID) {
		return nil, httperr.Forbidden("not_your_schedule")
	}

	var created *models.Appointment

	err := uc.deps.mutate(ctx, "create", orgID, actor, func(ctx context.Context, tx domain.Tx) error {

		// --------------------------------------------------
		// 1️⃣ Organização + data/hora no timezone dela
		// --------------------------------------------------
		org, now, err := uc.deps.orgNow(ctx, tx)
		if err != nil {
			return err
		}

		start, err := parseLocal(in.Date, in.Time, timezone.Location(org.Timezone))
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 2️⃣ Antecedência mínima
		// --------------------------------------------------
		if !start.After(now) {
			return httperr.Validation("start_in_past", "o horário escolhido já passou")
		}
		if !actor.IsStaff() && !actor.IsAutomation() && start.Before(now.Add(org.LeadTime())) {
			return httperr.Validation("too_soon", "o agendamento exige antecedência mínima")
		}

		// --------------------------------------------------
		// 3️⃣ Profissional + serviço
		// --------------------------------------------------
		if err := lockProfessional(ctx, tx, in.ProfessionalID); err != nil {
			return err
		}
		prof, err := loadProfessional(ctx, tx, in.ProfessionalID)
		if err != nil {
			return err
		}
		svc, err := loadService(ctx, tx, in.ServiceID)
		if err != nil {
			return err
		}
		if err := requireCertified(ctx, tx, prof.ID, svc.ID); err != nil {
			return err
		}

		end := start.Add(svc.Duration())

		// --------------------------------------------------
		// 4️⃣ Slot + validação de agenda
		// --------------------------------------------------
		sl, err := resolveSlot(ctx, tx, prof.ID, start, in.SlotID)
		if err != nil {
			return err
		}
		if sl != nil && sl.EndTime.Before(end) {
			return httperr.Validation("slot_too_short", "o serviço não cabe no slot escolhido")
		}

		if err := uc.deps.validate(ctx, tx, schedule.Request{
			ProfessionalID: prof.ID,
			Start:          start,
			End:            end,
		}); err != nil {
			return err
		}

		// --------------------------------------------------
		// 5️⃣ Cliente
		// --------------------------------------------------
		client, err := resolveClient(ctx, tx, actor, in.Client, false)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 6️⃣ Agendamento + slot
		// --------------------------------------------------
		channel := actor.Channel
		if channel == "" {
			channel = booking.ChannelStandard
		}

		ap := &models.Appointment{
			ProfessionalID: prof.ID,
			ClientID:       client.ID,
			ServiceID:      svc.ID,
			StartTime:      start,
			EndTime:        end,
			Status:         booking.StatusPending,
			Channel:        channel,
			Notes:          in.Notes,
			CreatedByID:    actor.UserRef(),
			CreatedIP:      actor.IP,
		}
		domain.PriceFrom(ap, svc)
		if sl != nil {
			ap.SlotID = &sl.ID
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if sl != nil {
			if err := bindSlot(ctx, tx, sl, ap.ID, in.SlotVersion); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// 7️⃣ Auditoria
		// --------------------------------------------------
		uc.deps.record(ctx, tx, actor, audit.KindAppointmentCreated, ap, map[string]any{
			"channel": string(channel),
			"start":   start.Format(time.RFC3339),
			"slot_id": ap.SlotID,
		})

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
