package models

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/slot"
)

type Slot struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index;not null" json:"organization_id"`
	ProfessionalID uint `gorm:"index:idx_slot_professional_start;not null" json:"professional_id"`

	StartTime time.Time `gorm:"index:idx_slot_professional_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	State         slot.State `gorm:"size:20;not null;default:'available'" json:"state"`
	HeldUntil     *time.Time `json:"held_until,omitempty"`
	AppointmentID *uint      `json:"appointment_id,omitempty"`
	Version       uint       `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Slot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

func (s *Slot) Record() slot.Record {
	return slot.Record{
		ID:            s.ID,
		State:         s.State,
		Version:       s.Version,
		AppointmentID: s.AppointmentID,
	}
}
