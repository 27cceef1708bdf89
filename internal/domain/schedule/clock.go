package schedule

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

const ClockLayout = "15:04"

// ParseClock parses an "HH:MM" string into an offset from midnight.
func ParseClock(hm string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// At places an "HH:MM" clock on the calendar day of day, in day's location.
func At(day time.Time, hm string) (time.Time, error) {
	off, err := ParseClock(hm)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(day).Add(off), nil
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59 of t's day, the latest end an appointment may have.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ===============================
// Intervals
// ===============================

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Window is one day of working hours for a professional.
type Window struct {
	Interval
	Lunch *Interval
}

// WindowFor resolves the working-hours row onto day. ok is false when the
// professional does not work that day.
func WindowFor(wh *models.WorkingHours, day time.Time) (Window, bool, error) {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return Window{}, false, nil
	}

	start, err := At(day, wh.StartTime)
	if err != nil {
		return Window{}, false, err
	}
	end, err := At(day, wh.EndTime)
	if err != nil {
		return Window{}, false, err
	}

	w := Window{Interval: Interval{Start: start, End: end}}

	if wh.HasLunch() {
		ls, err := At(day, wh.LunchStart)
		if err != nil {
			return Window{}, false, err
		}
		le, err := At(day, wh.LunchEnd)
		if err != nil {
			return Window{}, false, err
		}
		w.Lunch = &Interval{Start: ls, End: le}
	}

	return w, true, nil
}

// Contains reports whether iv lies inside working hours.
func (w Window) Contains(iv Interval) bool {
	return !iv.Start.Before(w.Start) && !iv.End.After(w.End)
}

func (w Window) HitsLunch(iv Interval) bool {
	return w.Lunch != nil && w.Lunch.Overlaps(iv)
}

// WorkingAt reports whether t falls in working time outside the lunch break.
func (w Window) WorkingAt(t time.Time) bool {
	if t.Before(w.Start) || !t.Before(w.End) {
		return false
	}
	if w.Lunch != nil && !t.Before(w.Lunch.Start) && t.Before(w.Lunch.End) {
		return false
	}
	return true
}
