package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/dto"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

// ListDueReminders returns confirmed appointments starting within the next
// withinHours that have not been reminded yet.
type ListDueReminders struct {
	deps Deps
}

func NewListDueReminders(deps Deps) *ListDueReminders {
	return &ListDueReminders{deps: deps.withDefaults()}
}

func (uc *ListDueReminders) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	withinHours int,
) ([]dto.ReminderDTO, error) {

	if !actor.IsStaff() && !actor.IsAutomation() {
		return nil, httperr.Forbidden("staff_only")
	}
	if withinHours <= 0 || withinHours > 168 {
		return nil, httperr.Validation("invalid_window", "janela de lembrete deve estar entre 1 e 168 horas")
	}

	var out []dto.ReminderDTO

	err := uc.deps.read(ctx, orgID, func(ctx context.Context, tx domain.Tx) error {
		_, now, err := uc.deps.orgNow(ctx, tx)
		if err != nil {
			return err
		}

		due, err := tx.ListDueForReminder(ctx, now, now.Add(time.Duration(withinHours)*time.Hour))
		if err != nil {
			return err
		}

		out = make([]dto.ReminderDTO, 0, len(due))
		for _, ap := range due {
			out = append(out, dto.ReminderFrom(ap))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRemindersSent flags appointments whose reminder went out. Already
// flagged ids are skipped.
type MarkRemindersSent struct {
	deps Deps
}

func NewMarkRemindersSent(deps Deps) *MarkRemindersSent {
	return &MarkRemindersSent{deps: deps.withDefaults()}
}

func (uc *MarkRemindersSent) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	ids []uint,
) (int64, error) {

	if !actor.IsStaff() && !actor.IsAutomation() {
		return 0, httperr.Forbidden("staff_only")
	}
	if len(ids) == 0 {
		return 0, httperr.Validation("empty_ids", "nenhum agendamento informado")
	}

	var marked int64

	err := uc.deps.mutate(ctx, "reminders_sent", orgID, actor, func(ctx context.Context, tx domain.Tx) error {
		_, now, err := uc.deps.orgNow(ctx, tx)
		if err != nil {
			return err
		}

		marked, err = tx.MarkReminderSent(ctx, ids, now)
		if err != nil {
			return err
		}

		uc.deps.record(ctx, tx, actor, audit.KindRemindersSent, nil, map[string]any{
			"requested": len(ids),
			"marked":    marked,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}
