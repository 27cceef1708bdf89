package appointment

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Actor is whoever drives an operation, as resolved from the request.
type Actor struct {
	UserID         uint
	Role           string
	ProfessionalID *uint
	ClientID       *uint

	IP      string
	Channel booking.Channel
}

// AutomationActor is used by the automated booking channel.
func AutomationActor() Actor {
	return Actor{Role: models.RoleAutomation, Channel: booking.ChannelAutomation}
}

func (a Actor) IsStaff() bool {
	switch a.Role {
	case models.RoleOwner, models.RoleManager, models.RoleReceptionist, models.RoleProfessional:
		return true
	}
	return false
}

func (a Actor) IsClient() bool {
	return a.Role == models.RoleClient
}

func (a Actor) IsAutomation() bool {
	return a.Role == models.RoleAutomation
}

// UserRef is the actor id stored on audit rows and appointments.
func (a Actor) UserRef() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

func (a Actor) ownsAsClient(ap *models.Appointment) bool {
	return a.IsClient() && a.ClientID != nil && *a.ClientID == ap.ClientID
}

// ===============================
// Guards
// ===============================

// CanManage is the staff-ownership guard: staff only, and line staff only
// on their own appointments.
func CanManage(a Actor, ap *models.Appointment) error {
	if !a.IsStaff() {
		return httperr.Forbidden("staff_only")
	}
	if a.Role == models.RoleProfessional {
		if a.ProfessionalID == nil || *a.ProfessionalID != ap.ProfessionalID {
			return httperr.Forbidden("not_your_appointment")
		}
	}
	return nil
}

// CanClientAct lets staff and automation through and holds clients to their
// own appointments while start is at least lead away.
func CanClientAct(a Actor, ap *models.Appointment, now time.Time, lead time.Duration) error {
	switch {
	case a.IsAutomation():
		return nil
	case a.IsStaff():
		return CanManage(a, ap)
	case a.ownsAsClient(ap):
		if now.After(ap.StartTime.Add(-lead)) {
			return httperr.Validation("lead_time_exceeded", "prazo mínimo de antecedência expirado")
		}
		return nil
	default:
		return httperr.Forbidden("not_your_appointment")
	}
}
