package models

import "time"

type Professional struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index;not null" json:"organization_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Phone  string `gorm:"size:20" json:"phone"`
	Color  string `gorm:"size:7" json:"color"`
	Active bool   `gorm:"default:true" json:"active"`

	Services []Service `gorm:"many2many:professional_services;" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
