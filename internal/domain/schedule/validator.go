package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Source provides the data the validator reads. WorkingHours returns nil, nil
// when the professional has no row for the weekday.
type Source interface {
	WorkingHours(ctx context.Context, professionalID uint, weekday time.Weekday) (*models.WorkingHours, error)
	Blocks(ctx context.Context, professionalID uint, from, to time.Time) ([]models.ScheduleBlock, error)
	ActiveAppointments(ctx context.Context, professionalID uint, from, to time.Time) ([]models.Appointment, error)
}

type Request struct {
	ProfessionalID uint
	Start          time.Time
	End            time.Time

	ExcludeAppointmentID     *uint
	IsWalkIn                 bool
	AllowOutsideWorkingHours bool

	// Now is only consulted for walk-ins.
	Now time.Time
}

type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r *Result) fail(code, msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, Issue{Code: code, Message: msg})
}

func (r *Result) warn(code, msg string) {
	r.Warnings = append(r.Warnings, Issue{Code: code, Message: msg})
}

// Err folds every error into one validation failure. The code is the
// first error's code.
func (r Result) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(r.Errors))
	for _, is := range r.Errors {
		reasons = append(reasons, is.Message)
	}
	return httperr.Validation(r.Errors[0].Code, reasons...)
}

const (
	CodeInvalidInterval    = "invalid_interval"
	CodeCrossesMidnight    = "crosses_midnight"
	CodeOutsideWorkingHour = "outside_working_hours"
	CodeLunchBreak         = "lunch_break"
	CodeBlocked            = "blocked_period"
	CodeTimeConflict       = "time_conflict"
	CodeStartInPast        = "start_in_past"
)

// Validate checks a proposed interval for a professional. It has no side
// effects; datastore failures come back as err.
func Validate(ctx context.Context, src Source, req Request) (Result, error) {
	res := Result{Valid: true}
	iv := Interval{Start: req.Start, End: req.End}

	// 1. shape
	if !req.Start.Before(req.End) {
		res.fail(CodeInvalidInterval, "o horário final deve ser posterior ao inicial")
		return res, nil
	}
	if !SameDay(req.Start, req.End) {
		res.fail(CodeCrossesMidnight, "o agendamento não pode passar da meia-noite")
		return res, nil
	}

	// 2. working hours + lunch
	wh, err := src.WorkingHours(ctx, req.ProfessionalID, req.Start.Weekday())
	if err != nil {
		return res, err
	}
	win, works, err := WindowFor(wh, req.Start)
	if err != nil {
		return res, err
	}

	report := res.fail
	if req.AllowOutsideWorkingHours {
		report = res.warn
	}
	switch {
	case !works || !win.Contains(iv):
		report(CodeOutsideWorkingHour, "fora do horário de atendimento")
	case win.HitsLunch(iv):
		report(CodeLunchBreak, "conflita com o intervalo de almoço")
	}

	dayStart := StartOfDay(req.Start)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// 3. blocks
	blocks, err := src.Blocks(ctx, req.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return res, err
	}
	for _, b := range blocks {
		if iv.Overlaps(Interval{Start: b.StartTime, End: b.EndTime}) {
			msg := "período bloqueado"
			if b.Reason != "" {
				msg = fmt.Sprintf("período bloqueado: %s", b.Reason)
			}
			res.fail(CodeBlocked, msg)
		}
	}

	// 4. overlap with active appointments
	apps, err := src.ActiveAppointments(ctx, req.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return res, err
	}
	for _, ap := range apps {
		if !ap.Status.IsActive() {
			continue
		}
		if req.ExcludeAppointmentID != nil && ap.ID == *req.ExcludeAppointmentID {
			continue
		}
		if iv.Overlaps(Interval{Start: ap.StartTime, End: ap.EndTime}) {
			res.fail(CodeTimeConflict, fmt.Sprintf(
				"conflita com o agendamento #%d (%s–%s)",
				ap.ID,
				ap.StartTime.Format(ClockLayout),
				ap.EndTime.Format(ClockLayout),
			))
		}
	}

	if req.IsWalkIn && !req.Now.IsZero() && req.Start.Before(req.Now) {
		res.warn(CodeStartInPast, "início no passado")
	}

	return res, nil
}
