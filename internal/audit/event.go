package audit

import (
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

const (
	KindAppointmentCreated     = "appointment_created"
	KindAppointmentConfirmed   = "appointment_confirmed"
	KindAppointmentCheckedIn   = "appointment_checked_in"
	KindAppointmentStarted     = "appointment_started"
	KindAppointmentCompleted   = "appointment_completed"
	KindAppointmentCancelled   = "appointment_cancelled"
	KindAppointmentNoShow      = "appointment_no_show"
	KindAppointmentRescheduled = "appointment_rescheduled"
	KindAppointmentUpdated     = "appointment_updated"
	KindWalkInCreated          = "walk_in_created"
	KindAutoBooked             = "appointment_auto_booked"
	KindSlotConflict           = "slot_conflict"
	KindRemindersSent          = "reminders_sent"
)

type Event struct {
	OrganizationID uint
	Kind           string
	AppointmentID  *uint
	ActorID        *uint
	Metadata       map[string]any
}

func (ev Event) Row() *models.AuditLog {
	var meta datatypes.JSONMap
	if len(ev.Metadata) > 0 {
		meta = datatypes.JSONMap(ev.Metadata)
	}
	return &models.AuditLog{
		OrganizationID: ev.OrganizationID,
		Kind:           ev.Kind,
		AppointmentID:  ev.AppointmentID,
		ActorID:        ev.ActorID,
		Metadata:       meta,
	}
}
