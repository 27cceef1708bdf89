package appointment

import "time"

type AvailabilityInput struct {
	OrganizationID uint
	ProfessionalID uint
	ServiceID      uint
	Date           time.Time

	// NotBefore hides intervals starting earlier, e.g. now plus lead time.
	NotBefore time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
