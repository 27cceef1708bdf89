package models

import "time"

type WorkingHours struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index;not null" json:"organization_id"`
	ProfessionalID uint `gorm:"uniqueIndex:idx_wh_professional_weekday;not null" json:"professional_id"`

	Weekday int `gorm:"uniqueIndex:idx_wh_professional_weekday" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (wh *WorkingHours) HasLunch() bool {
	return wh.LunchStart != "" && wh.LunchEnd != ""
}

// ScheduleBlock is a time range in which the professional takes no bookings.
type ScheduleBlock struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index;not null" json:"organization_id"`
	ProfessionalID uint `gorm:"index;not null" json:"professional_id"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
