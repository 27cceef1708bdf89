package appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	next, err := booking.Next(ap.Status, booking.EventConfirm)
	if err != nil {
		return err
	}
	ap.Status = next
	ap.Confirmed = true
	return nil
}

// CheckIn records the client's arrival. The status does not change.
func CheckIn(ap *models.Appointment, now time.Time) error {
	if !booking.Can(ap.Status, booking.EventStart) {
		_, err := booking.Next(ap.Status, booking.EventStart)
		return err
	}
	if ap.ArrivedAt == nil {
		ap.ArrivedAt = &now
	}
	return nil
}

func Start(ap *models.Appointment, now time.Time) error {
	next, err := booking.Next(ap.Status, booking.EventStart)
	if err != nil {
		return err
	}
	ap.Status = next
	if ap.ArrivedAt == nil {
		ap.ArrivedAt = &now
	}
	ap.ActualStartAt = &now
	ap.ActualEndAt = nil
	return nil
}

// Complete finishes the service. With no paid override a priced appointment
// is marked paid.
func Complete(ap *models.Appointment, now time.Time, paidOverride *bool) error {
	next, err := booking.Next(ap.Status, booking.EventComplete)
	if err != nil {
		return err
	}
	ap.Status = next
	ap.CompletedAt = &now
	ap.ActualEndAt = &now
	if ap.ActualStartAt == nil {
		ap.ActualStartAt = &now
	}

	switch {
	case paidOverride != nil:
		ap.Paid = *paidOverride
	case ap.FinalPrice.GreaterThan(decimal.Zero):
		ap.Paid = true
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	next, err := booking.Next(ap.Status, booking.EventCancel)
	if err != nil {
		return err
	}
	ap.Status = next
	ap.CancelledAt = &now
	ap.CancellationReason = reason
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	next, err := booking.Next(ap.Status, booking.EventNoShow)
	if err != nil {
		return err
	}
	if now.Before(ap.StartTime) {
		return httperr.Validation("not_started_yet", "o horário do agendamento ainda não chegou")
	}
	ap.Status = next
	return nil
}

// Reschedule moves the appointment and sends it back to pending.
func Reschedule(ap *models.Appointment, start, end time.Time, slotID *uint) error {
	next, err := booking.Next(ap.Status, booking.EventReschedule)
	if err != nil {
		return err
	}
	ap.Status = next
	ap.StartTime = start
	ap.EndTime = end
	ap.SlotID = slotID
	ap.Confirmed = false
	ap.ArrivedAt = nil
	ap.ActualStartAt = nil
	ap.ActualEndAt = nil
	ap.ReminderSentAt = nil
	return nil
}

// PriceFrom sets the appointment's prices from the service.
func PriceFrom(ap *models.Appointment, svc *models.Service) {
	ap.Price = svc.Price
	ap.Discount = decimal.Zero
	ap.FinalPrice = svc.Price
}
