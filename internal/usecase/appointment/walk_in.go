package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/walkin"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/metrics"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type CreateWalkInInput struct {
	// ProfessionalID nil lets the ranking pick one.
	ProfessionalID *uint
	ServiceID      uint
	Client         ClientInput
	Notes          string
}

type WalkInResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Queued      bool                `json:"queued"`
	Clamped     bool                `json:"clamped"`
}

type CreateWalkIn struct {
	deps Deps
}

func NewCreateWalkIn(deps Deps) *CreateWalkIn {
	return &CreateWalkIn{deps: deps.withDefaults()}
}

func (uc *CreateWalkIn) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	in CreateWalkInInput,
) (*WalkInResult, error) {

	if !actor.IsStaff() {
		return nil, httperr.Forbidden("staff_only")
	}
	if actor.Role == models.RoleProfessional {
		in.ProfessionalID = actor.ProfessionalID
	}

	var result *WalkInResult

	err := uc.deps.mutate(ctx, "walk_in", orgID, actor, func(ctx context.Context, tx domain.Tx) error {
		_, now, err := uc.deps.orgNow(ctx, tx)
		if err != nil {
			return err
		}

		svc, err := loadService(ctx, tx, in.ServiceID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Profissional (informado ou sugerido)
		// --------------------------------------------------
		profID := uint(0)
		if in.ProfessionalID != nil {
			profID = *in.ProfessionalID
		} else {
			ranked, err := rankProfessionals(ctx, tx, svc.ID, now)
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				return httperr.Unavailable("no_professional_available")
			}
			profID = ranked[0].ProfessionalID
		}

		// serializes walk-ins of this professional until commit
		if err := lockProfessional(ctx, tx, profID); err != nil {
			return err
		}

		prof, err := loadProfessional(ctx, tx, profID)
		if err != nil {
			return err
		}
		if err := requireCertified(ctx, tx, prof.ID, svc.ID); err != nil {
			return err
		}

		// --------------------------------------------------
		// Decisão: agora ou fila
		// --------------------------------------------------
		input := walkin.Input{
			Now:      now,
			Duration: svc.Duration(),
			Current:  booking.Idle{},
		}

		running, err := tx.FindRunningAppointment(ctx, prof.ID)
		if err != nil {
			return err
		}
		if running != nil {
			input.Busy = true
			input.Current = running.Progress()
			input.CurrentNominal = running.Service.Duration()
			if input.CurrentNominal <= 0 {
				input.CurrentNominal = running.EndTime.Sub(running.StartTime)
			}
		}

		wh, err := tx.WorkingHours(ctx, prof.ID, now.Weekday())
		if err != nil {
			return err
		}
		win, works, err := schedule.WindowFor(wh, now)
		if err != nil {
			return err
		}
		input.WorkingNow = works && win.WorkingAt(now)

		plan, err := walkin.Decide(input)
		if err != nil {
			return err
		}

		if err := uc.deps.validate(ctx, tx, schedule.Request{
			ProfessionalID:           prof.ID,
			Start:                    plan.Start,
			End:                      plan.End,
			IsWalkIn:                 true,
			AllowOutsideWorkingHours: plan.AllowOutsideWorkingHours,
			Now:                      now,
		}); err != nil {
			return err
		}

		// --------------------------------------------------
		// Cliente + agendamento
		// --------------------------------------------------
		client, err := resolveClient(ctx, tx, actor, in.Client, true)
		if err != nil {
			return err
		}

		arrived := now
		ap := &models.Appointment{
			ProfessionalID: prof.ID,
			ClientID:       client.ID,
			ServiceID:      svc.ID,
			StartTime:      plan.Start,
			EndTime:        plan.End,
			Status:         plan.Status,
			Channel:        booking.ChannelWalkIn,
			Confirmed:      true,
			ArrivedAt:      &arrived,
			ActualStartAt:  plan.ActualStart,
			Notes:          in.Notes,
			CreatedByID:    actor.UserRef(),
			CreatedIP:      actor.IP,
		}
		domain.PriceFrom(ap, svc)

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		mode := "immediate"
		if plan.Busy {
			mode = "queued"
		}

		uc.deps.record(ctx, tx, actor, audit.KindWalkInCreated, ap, map[string]any{
			"mode":    mode,
			"clamped": plan.Clamped,
			"start":   plan.Start.Format(time.RFC3339),
		})

		metrics.RecordWalkIn(mode)

		result = &WalkInResult{Appointment: ap, Queued: plan.Busy, Clamped: plan.Clamped}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
