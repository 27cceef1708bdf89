package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index;not null" json:"organization_id"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	DurationMin int             `gorm:"not null" json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Active      bool            `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	Professionals []Professional `gorm:"many2many:professional_services;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}
