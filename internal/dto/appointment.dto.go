package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID               uint            `json:"id"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	Status           booking.Status  `json:"status"`
	Channel          booking.Channel `json:"channel"`
	Confirmed        bool            `json:"confirmed"`
	Paid             bool            `json:"paid"`
	FinalPrice       decimal.Decimal `json:"final_price"`
	ClientName       string          `json:"client_name"`
	ClientPhone      string          `json:"client_phone"`
	ProfessionalID   uint            `json:"professional_id"`
	ProfessionalName string          `json:"professional_name"`
	ServiceName      string          `json:"service_name"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:               ap.ID,
		StartTime:        ap.StartTime,
		EndTime:          ap.EndTime,
		Status:           ap.Status,
		Channel:          ap.Channel,
		Confirmed:        ap.Confirmed,
		Paid:             ap.Paid,
		FinalPrice:       ap.FinalPrice,
		ClientName:       ap.Client.Name,
		ClientPhone:      ap.Client.Phone,
		ProfessionalID:   ap.ProfessionalID,
		ProfessionalName: ap.Professional.Name,
		ServiceName:      ap.Service.Name,
	}
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap))
	}
	return out
}

// ReminderDTO is what the notification collaborator needs to send a reminder.
type ReminderDTO struct {
	AppointmentID    uint      `json:"appointment_id"`
	StartTime        time.Time `json:"start_time"`
	ClientName       string    `json:"client_name"`
	ClientPhone      string    `json:"client_phone"`
	ClientEmail      string    `json:"client_email"`
	ProfessionalName string    `json:"professional_name"`
	ServiceName      string    `json:"service_name"`
}

func ReminderFrom(ap models.Appointment) ReminderDTO {
	return ReminderDTO{
		AppointmentID:    ap.ID,
		StartTime:        ap.StartTime,
		ClientName:       ap.Client.Name,
		ClientPhone:      ap.Client.Phone,
		ClientEmail:      ap.Client.Email,
		ProfessionalName: ap.Professional.Name,
		ServiceName:      ap.Service.Name,
	}
}
