package models

import "time"

type Organization struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone        string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	LeadTimeMinutes int    `gorm:"default:120" json:"lead_time_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadTime is the minimum notice clients need for self-service changes.
func (o *Organization) LeadTime() time.Duration {
	if o.LeadTimeMinutes <= 0 {
		return 120 * time.Minute
	}
	return time.Duration(o.LeadTimeMinutes) * time.Minute
}
