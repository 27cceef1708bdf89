package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
)

type GetAvailability struct {
	deps Deps
}

func NewGetAvailability(deps Deps) *GetAvailability {
	return &GetAvailability{deps: deps.withDefaults()}
}

// Execute lists the free start times for a professional, service and day.
// Day listings are cached per organization; NotBefore filters afterwards.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	var intervals []schedule.Interval

	err := uc.deps.read(ctx, in.OrganizationID, func(ctx context.Context, tx domain.Tx) error {
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

		key := fmt.Sprintf("p%d:s%d:%s", prof.ID, svc.ID, in.Date.Format("2006-01-02"))
		ticket, ok, err := uc.deps.Cache.Load(ctx, in.OrganizationID, key, &intervals)
		if err == nil && ok {
			return nil
		} else if err != nil {
			uc.deps.Log.Warn().Err(err).Msg("availability cache read failed")
		}

		wh, err := tx.WorkingHours(ctx, prof.ID, in.Date.Weekday())
		if err != nil {
			return err
		}
		win, works, err := schedule.WindowFor(wh, in.Date)
		if err != nil {
			return err
		}
		if !works {
			intervals = []schedule.Interval{}
			return nil
		}

		dayStart := schedule.StartOfDay(in.Date)
		dayEnd := dayStart.AddDate(0, 0, 1)

		blocks, err := tx.Blocks(ctx, prof.ID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		apps, err := tx.ActiveAppointments(ctx, prof.ID, dayStart, dayEnd)
		if err != nil {
			return err
		}

		busy := make([]schedule.Interval, 0, len(blocks)+len(apps))
		for _, b := range blocks {
			busy = append(busy, schedule.Interval{Start: b.StartTime, End: b.EndTime})
		}
		for _, ap := range apps {
			busy = append(busy, schedule.Interval{Start: ap.StartTime, End: ap.EndTime})
		}

		intervals = schedule.FreeIntervals(win, svc.Duration(), busy, time.Time{})

		if err := uc.deps.Cache.Store(ctx, ticket, intervals); err != nil {
			uc.deps.Log.Warn().Err(err).Msg("availability cache write failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loc := in.Date.Location()
	slots := make([]domain.TimeSlot, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Start.Before(in.NotBefore) {
			continue
		}
		slots = append(slots, domain.TimeSlot{
			Start: iv.Start.In(loc).Format(schedule.ClockLayout),
			End:   iv.End.In(loc).Format(schedule.ClockLayout),
		})
	}

	return slots, nil
}
