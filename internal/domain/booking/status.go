package booking

import (
	"fmt"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.Validation("invalid_status", fmt.Sprintf("status desconhecido: %q", s))
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive reports whether the appointment still occupies professional time.
func (s Status) IsActive() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// InactiveStatuses are excluded from overlap checks.
func InactiveStatuses() []Status {
	return []Status{StatusCancelled, StatusNoShow}
}

func TerminalStatuses() []Status {
	return []Status{StatusCompleted, StatusCancelled, StatusNoShow}
}

// ===============================
// Transitions
// ===============================

type Event string

const (
	EventConfirm    Event = "confirm"
	EventStart      Event = "start"
	EventComplete   Event = "complete"
	EventCancel     Event = "cancel"
	EventNoShow     Event = "no_show"
	EventReschedule Event = "reschedule"
)

var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventConfirm:    StatusConfirmed,
		EventStart:      StatusInProgress,
		EventCancel:     StatusCancelled,
		EventNoShow:     StatusNoShow,
		EventReschedule: StatusPending,
	},
	StatusConfirmed: {
		EventStart:      StatusInProgress,
		EventCancel:     StatusCancelled,
		EventNoShow:     StatusNoShow,
		EventReschedule: StatusPending,
	},
	StatusInProgress: {
		EventComplete:   StatusCompleted,
		EventReschedule: StatusPending,
	},
}

// Next looks the transition up in the table; anything missing is rejected.
func Next(current Status, ev Event) (Status, error) {
	if next, ok := transitions[current][ev]; ok {
		return next, nil
	}
	if current.IsTerminal() {
		return "", httperr.InvalidTransition("terminal_state")
	}
	return "", httperr.InvalidTransition("invalid_state")
}

func Can(current Status, ev Event) bool {
	_, ok := transitions[current][ev]
	return ok
}
