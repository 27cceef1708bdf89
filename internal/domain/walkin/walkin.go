package walkin

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

type Input struct {
	Now      time.Time
	Duration time.Duration

	// Current is the progress of the professional's in_progress appointment,
	// Idle when there is none. CurrentNominal is that appointment's
	// service duration.
	Current        booking.Progress
	CurrentNominal time.Duration

	// Busy marks an in_progress appointment whose progress may still be
	// Idle because its actual start was never recorded.
	Busy bool

	// WorkingNow reports an active working-hours window at Now.
	WorkingNow bool
}

type Plan struct {
	Start  time.Time
	End    time.Time
	Status booking.Status

	ActualStart *time.Time

	Busy    bool
	Clamped bool

	// AllowOutsideWorkingHours is what the validator must be called with.
	AllowOutsideWorkingHours bool
}

// EstimateEnd predicts when the professional's current service ends, from
// the most precise data available.
func EstimateEnd(p booking.Progress, nominal time.Duration, now time.Time) time.Time {
	switch v := p.(type) {
	case booking.Finished:
		return v.End
	case booking.Running:
		return v.Start.Add(nominal)
	default:
		return now.Add(nominal)
	}
}

// Decide computes where a walk-in lands. A busy professional queues the
// walk-in after the current service; an idle one starts it now.
func Decide(in Input) (Plan, error) {
	if in.Duration <= 0 {
		return Plan{}, httperr.Validation("invalid_duration", "duração do serviço inválida")
	}

	var plan Plan

	_, running := in.Current.(booking.Running)
	switch {
	case in.Busy || running:
		start := EstimateEnd(in.Current, in.CurrentNominal, in.Now)
		if start.Before(in.Now) {
			start = in.Now
		}
		plan = Plan{
			Start:                    start,
			End:                      start.Add(in.Duration),
			Status:                   booking.StatusConfirmed,
			Busy:                     true,
			AllowOutsideWorkingHours: true,
		}

	default:
		if !in.WorkingNow {
			return Plan{}, httperr.Validation(
				"professional_not_working",
				"o profissional não está em horário de atendimento agora",
			)
		}
		now := in.Now
		plan = Plan{
			Start:       now,
			End:         now.Add(in.Duration),
			Status:      booking.StatusInProgress,
			ActualStart: &now,
		}
	}

	limit := endOfDay(plan.Start)
	if !plan.Start.Before(limit) {
		return Plan{}, httperr.Validation("no_time_left_today", "não há mais horário hoje para este profissional")
	}
	if plan.End.After(limit) {
		plan.End = limit
		plan.Clamped = true
	}

	return plan, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
}

// ===============================
// Auto-assignment
// ===============================

type Candidate struct {
	ProfessionalID    uint   `json:"professional_id"`
	Name              string `json:"name"`
	Busy              bool   `json:"busy"`
	AppointmentsToday int    `json:"appointments_today"`
}

// Rank orders candidates: available now first, then fewer appointments
// today, then lower id.
func Rank(cs []Candidate) []Candidate {
	out := append([]Candidate(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Busy != b.Busy {
			return !a.Busy
		}
		if a.AppointmentsToday != b.AppointmentsToday {
			return a.AppointmentsToday < b.AppointmentsToday
		}
		return a.ProfessionalID < b.ProfessionalID
	})
	return out
}
