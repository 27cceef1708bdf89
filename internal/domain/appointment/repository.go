package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ErrNotFound is returned by Tx getters for rows missing in the tenant.
var ErrNotFound = errors.New("record not found")

// Store opens units of work. fn runs inside exactly one transaction bound to
// orgID; returning an error rolls everything back.
type Store interface {
	WithinTx(ctx context.Context, orgID uint, fn func(ctx context.Context, tx Tx) error) error
}

type AppointmentFilter struct {
	ProfessionalID *uint
	ClientID       *uint
	Statuses       []booking.Status
	From           time.Time
	To             time.Time
}

type SlotQuery struct {
	ProfessionalIDs []uint
	From            time.Time
	To              time.Time
	MinDuration     time.Duration
	Limit           int
	Offset          int
}

type AuditFilter struct {
	Kind          string
	AppointmentID *uint
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// Tx is the tenant-scoped view of the datastore inside one unit of work.
// Every query is restricted to OrganizationID.
type Tx interface {
	schedule.Source
	slot.Store
	audit.Sink

	OrganizationID() uint

	// -------- Organization --------
	GetOrganization(ctx context.Context) (*models.Organization, error)

	// -------- Professional / Service --------
	GetProfessional(ctx context.Context, id uint) (*models.Professional, error)
	ListActiveProfessionals(ctx context.Context) ([]models.Professional, error)
	LockProfessional(ctx context.Context, id uint) error
	GetService(ctx context.Context, id uint) (*models.Service, error)
	IsCertified(ctx context.Context, professionalID, serviceID uint) (bool, error)
	ListCertifiedProfessionals(ctx context.Context, serviceID uint) ([]models.Professional, error)

	// -------- Client --------
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	FindClientByPhone(ctx context.Context, phone string) (*models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	SaveAppointment(ctx context.Context, ap *models.Appointment) error
	FindRunningAppointment(ctx context.Context, professionalID uint) (*models.Appointment, error)
	CountAppointments(ctx context.Context, professionalID uint, from, to time.Time) (int, error)
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, ids []uint, at time.Time) (int64, error)

	// -------- Slot --------
	GetSlot(ctx context.Context, id uint) (*models.Slot, error)
	FindSlotAt(ctx context.Context, professionalID uint, start time.Time) (*models.Slot, error)
	ListOpenSlots(ctx context.Context, q SlotQuery) ([]models.Slot, error)

	// -------- Audit --------
	ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error)
}
