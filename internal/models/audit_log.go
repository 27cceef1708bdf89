package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog rows are append-only.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrganizationID uint   `gorm:"index;not null" json:"organization_id"`
	Kind           string `gorm:"size:50;not null;index" json:"kind"`

	AppointmentID *uint             `gorm:"index" json:"appointment_id"`
	ActorID       *uint             `json:"actor_id"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
