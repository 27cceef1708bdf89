package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrganizationID uint `gorm:"index;not null" json:"organization_id"`

	ProfessionalID uint         `gorm:"index;not null" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional"`

	ClientID uint   `gorm:"index;not null" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	SlotID *uint `json:"slot_id,omitempty"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status    booking.Status  `gorm:"size:20;not null;default:'pending'" json:"status"`
	Channel   booking.Channel `gorm:"size:20;not null;default:'standard'" json:"channel"`
	Confirmed bool            `json:"confirmed"`

	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Discount      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount"`
	FinalPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"final_price"`
	Paid          bool            `json:"paid"`
	PaymentMethod string          `gorm:"size:30" json:"payment_method"`

	ArrivedAt     *time.Time `json:"arrived_at"`
	ActualStartAt *time.Time `json:"actual_start_at"`
	ActualEndAt   *time.Time `json:"actual_end_at"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	CompletedAt   *time.Time `json:"completed_at"`

	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	Rating             *int       `json:"rating"`
	Notes              string     `gorm:"size:255" json:"notes"`
	ReminderSentAt     *time.Time `json:"reminder_sent_at"`

	CreatedByID *uint  `json:"created_by_id"`
	CreatedIP   string `gorm:"size:45" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ap *Appointment) Progress() booking.Progress {
	return booking.ProgressOf(ap.ActualStartAt, ap.ActualEndAt)
}
