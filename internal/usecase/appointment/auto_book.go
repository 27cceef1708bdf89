package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/matcher"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/metrics"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// candidatePage is how many open slots are read per query while searching.
const candidatePage = 50

type AutoBookInput struct {
	ServiceID uint

	// Date is a keyword (today, amanha, friday, ...) or YYYY-MM-DD.
	Date  string
	Shift string

	PreferredProfessionalID *uint
	Client                  ClientInput
	Notes                   string
}

// AutoBook books the earliest open slot matching a coarse request.
type AutoBook struct {
	deps Deps
}

func NewAutoBook(deps Deps) *AutoBook {
	return &AutoBook{deps: deps.withDefaults()}
}

func (uc *AutoBook) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	in AutoBookInput,
) (*models.Appointment, error) {

	shift, err := matcher.ParseShift(in.Shift)
	if err != nil {
		return nil, err
	}

	var booked *models.Appointment

	err = uc.deps.mutate(ctx, "auto_book", orgID, actor, func(ctx context.Context, tx domain.Tx) error {
		_, now, err := uc.deps.orgNow(ctx, tx)
		if err != nil {
			return err
		}

		day, err := matcher.ResolveDate(in.Date, now)
		if err != nil {
			return err
		}
		from, to := shift.Window(day)
		if from.Before(now) {
			from = now
		}

		svc, err := loadService(ctx, tx, in.ServiceID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Profissionais elegíveis
		// --------------------------------------------------
		certified, err := tx.ListCertifiedProfessionals(ctx, svc.ID)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(certified))
		for _, p := range certified {
			if in.PreferredProfessionalID != nil && p.ID == *in.PreferredProfessionalID {
				ids = []uint{p.ID}
				break
			}
			ids = append(ids, p.ID)
		}

		// ascending order keeps concurrent auto-books from deadlocking
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if err := lockProfessional(ctx, tx, id); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// Primeiro slot que passa na validação
		// --------------------------------------------------
		var (
			chosen *models.Slot
			end    time.Time
		)
		if from.Before(to) && len(ids) > 0 {
			q := domain.SlotQuery{
				ProfessionalIDs: ids,
				From:            from,
				To:              to,
				MinDuration:     svc.Duration(),
				Limit:           candidatePage,
			}
		search:
			for {
				slots, err := tx.ListOpenSlots(ctx, q)
				if err != nil {
					return err
				}

				for i := range slots {
					s := &slots[i]
					res, err := schedule.Validate(ctx, tx, schedule.Request{
						ProfessionalID: s.ProfessionalID,
						Start:          s.StartTime,
						End:            s.StartTime.Add(svc.Duration()),
					})
					if err != nil {
						return err
					}
					if res.Valid {
						chosen = s
						end = s.StartTime.Add(svc.Duration())
						break search
					}
				}

				if len(slots) < q.Limit {
					break
				}
				q.Offset += len(slots)
			}
		}

		if chosen == nil {
			return httperr.Unavailable("no_slot_available")
		}

		// --------------------------------------------------
		// Cliente + agendamento + slot + auditoria
		// --------------------------------------------------
		client, err := resolveClient(ctx, tx, actor, in.Client, false)
		if err != nil {
			return err
		}

		ap := &models.Appointment{
			ProfessionalID: chosen.ProfessionalID,
			ClientID:       client.ID,
			ServiceID:      svc.ID,
			SlotID:         &chosen.ID,
			StartTime:      chosen.StartTime,
			EndTime:        end,
			Status:         booking.StatusPending,
			Channel:        booking.ChannelAutomation,
			Notes:          in.Notes,
			CreatedByID:    actor.UserRef(),
			CreatedIP:      actor.IP,
		}
		domain.PriceFrom(ap, svc)

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		if err := bindSlot(ctx, tx, chosen, ap.ID, nil); err != nil {
			return err
		}

		uc.deps.record(ctx, tx, actor, audit.KindAutoBooked, ap, map[string]any{
			"date_keyword": in.Date,
			"shift":        string(shift),
			"slot_id":      chosen.ID,
		})

		booked = ap
		return nil
	})

	switch {
	case err == nil:
		metrics.RecordMatcherOutcome("booked")
	case httperr.IsKind(err, httperr.KindUnavailable):
		metrics.RecordMatcherOutcome("unavailable")
	}
	if err != nil {
		return nil, err
	}

	return booked, nil
}
