package models

import "time"

const (
	RoleOwner        = "owner"
	RoleManager      = "manager"
	RoleReceptionist = "receptionist"
	RoleProfessional = "professional"
	RoleClient       = "client"
	RoleAutomation   = "automation"
)

type User struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	OrganizationID uint         `gorm:"index" json:"organization_id"`
	Organization   Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`

	// set when the user is a professional or a client respectively
	ProfessionalID *uint `json:"professional_id,omitempty"`
	ClientID       *uint `json:"client_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
