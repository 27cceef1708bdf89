package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// GormStore opens tenant-bound transactions on Postgres.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormStore(db *gorm.DB, timeout time.Duration) *GormStore {
	return &GormStore{db: db, timeout: timeout}
}

func (s *GormStore) WithinTx(
	ctx context.Context,
	orgID uint,
	fn func(ctx context.Context, tx domain.Tx) error,
) error {

	if orgID == 0 {
		return errors.New("unit of work without organization")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Exec(
			"SELECT set_config('app.organization_id', ?, true)",
			strconv.FormatUint(uint64(orgID), 10),
		).Error; err != nil {
			return fmt.Errorf("bind tenant: %w", err)
		}
		return fn(ctx, &gormTx{db: db, orgID: orgID})
	})
}

type gormTx struct {
	db    *gorm.DB
	orgID uint
}

func (t *gormTx) OrganizationID() uint {
	return t.orgID
}

// scoped restricts a query on model to the bound organization.
func (t *gormTx) scoped(ctx context.Context, model any) *gorm.DB {
	return t.db.WithContext(ctx).
		Model(model).
		Where("organization_id = ?", t.orgID)
}

func (t *gormTx) checkTenant(got uint) error {
	if got != t.orgID {
		return fmt.Errorf("tenant violation: row of organization %d inside unit of work of %d", got, t.orgID)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

var inactiveStatuses = booking.InactiveStatuses()

// --------------------------------------------------
// Organization
// --------------------------------------------------

func (t *gormTx) GetOrganization(ctx context.Context) (*models.Organization, error) {
	var org models.Organization
	if err := t.db.WithContext(ctx).First(&org, t.orgID).Error; err != nil {
		return nil, notFound(err)
	}
	return &org, nil
}

// --------------------------------------------------
// Professional / Service
// --------------------------------------------------

func (t *gormTx) GetProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var p models.Professional
	if err := t.scoped(ctx, &models.Professional{}).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, t.checkTenant(p.OrganizationID)
}

func (t *gormTx) ListActiveProfessionals(ctx context.Context) ([]models.Professional, error) {
	var out []models.Professional
	err := t.scoped(ctx, &models.Professional{}).
		Where("active = ?", true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// LockProfessional takes a row lock held until the transaction ends.
func (t *gormTx) LockProfessional(ctx context.Context, id uint) error {
	var p models.Professional
	err := t.scoped(ctx, &models.Professional{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "organization_id").
		First(&p, id).Error
	return notFound(err)
}

func (t *gormTx) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := t.scoped(ctx, &models.Service{}).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, t.checkTenant(s.OrganizationID)
}

func (t *gormTx) IsCertified(ctx context.Context, professionalID, serviceID uint) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).
		Table("professional_services").
		Joins("JOIN professionals ON professionals.id = professional_services.professional_id").
		Where(
			"professional_services.professional_id = ? AND professional_services.service_id = ? AND professionals.organization_id = ?",
			professionalID, serviceID, t.orgID,
		).
		Count(&count).Error
	return count > 0, err
}

func (t *gormTx) ListCertifiedProfessionals(ctx context.Context, serviceID uint) ([]models.Professional, error) {
	var out []models.Professional
	err := t.db.WithContext(ctx).
		Joins("JOIN professional_services ON professional_services.professional_id = professionals.id").
		Where(
			"professional_services.service_id = ? AND professionals.organization_id = ? AND professionals.active = ?",
			serviceID, t.orgID, true,
		).
		Order("professionals.id ASC").
		Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (t *gormTx) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := t.scoped(ctx, &models.Client{}).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (t *gormTx) FindClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	var c models.Client
	err := t.scoped(ctx, &models.Client{}).
		Where("phone = ?", phone).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *gormTx) CreateClient(ctx context.Context, c *models.Client) error {
	c.OrganizationID = t.orgID
	return t.db.WithContext(ctx).Create(c).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// GetAppointment locks the row for the rest of the unit of work.
func (t *gormTx) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := t.scoped(ctx, &models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, t.checkTenant(ap.OrganizationID)
}

func (t *gormTx) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.OrganizationID = t.orgID
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (t *gormTx) SaveAppointment(ctx context.Context, ap *models.Appointment) error {
	if err := t.checkTenant(ap.OrganizationID); err != nil {
		return err
	}
	return t.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (t *gormTx) FindRunningAppointment(ctx context.Context, professionalID uint) (*models.Appointment, error) {
	var ap models.Appointment
	err := t.scoped(ctx, &models.Appointment{}).
		Preload("Service").
		Where(
			"professional_id = ? AND status = ? AND actual_end_at IS NULL",
			professionalID, booking.StatusInProgress,
		).
		Order("actual_start_at DESC").
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (t *gormTx) CountAppointments(ctx context.Context, professionalID uint, from, to time.Time) (int, error) {
	var count int64
	err := t.scoped(ctx, &models.Appointment{}).
		Where(
			"professional_id = ? AND status NOT IN ? AND start_time >= ? AND start_time < ?",
			professionalID, inactiveStatuses, from, to,
		).
		Count(&count).Error
	return int(count), err
}

func (t *gormTx) ListAppointments(ctx context.Context, f domain.AppointmentFilter) ([]models.Appointment, error) {
	q := t.scoped(ctx, &models.Appointment{}).
		Preload("Client").
		Preload("Service").
		Preload("Professional").
		Where("start_time >= ? AND start_time < ?", f.From, f.To)

	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var out []models.Appointment
	err := q.Order("start_time ASC").Find(&out).Error
	return out, err
}

func (t *gormTx) ListDueForReminder(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	err := t.scoped(ctx, &models.Appointment{}).
		Preload("Client").
		Preload("Service").
		Preload("Professional").
		Where(
			"status = ? AND reminder_sent_at IS NULL AND start_time >= ? AND start_time < ?",
			booking.StatusConfirmed, from, to,
		).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (t *gormTx) MarkReminderSent(ctx context.Context, ids []uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := t.scoped(ctx, &models.Appointment{}).
		Where("id IN ? AND reminder_sent_at IS NULL", ids).
		Update("reminder_sent_at", at)
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Availability (schedule.Source)
// --------------------------------------------------

func (t *gormTx) WorkingHours(ctx context.Context, professionalID uint, weekday time.Weekday) (*models.WorkingHours, error) {
	var wh models.WorkingHours
	err := t.scoped(ctx, &models.WorkingHours{}).
		Where("professional_id = ? AND weekday = ?", professionalID, int(weekday)).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (t *gormTx) Blocks(ctx context.Context, professionalID uint, from, to time.Time) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	err := t.scoped(ctx, &models.ScheduleBlock{}).
		Where("professional_id = ? AND start_time < ? AND end_time > ?", professionalID, to, from).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (t *gormTx) ActiveAppointments(ctx context.Context, professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	err := t.scoped(ctx, &models.Appointment{}).
		Select("id", "organization_id", "professional_id", "start_time", "end_time", "status").
		Where(
			"professional_id = ? AND status NOT IN ? AND start_time < ? AND end_time > ?",
			professionalID, inactiveStatuses, to, from,
		).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Slot (slot.Store)
// --------------------------------------------------

func (t *gormTx) GetSlot(ctx context.Context, id uint) (*models.Slot, error) {
	var s models.Slot
	if err := t.scoped(ctx, &models.Slot{}).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, t.checkTenant(s.OrganizationID)
}

func (t *gormTx) LoadSlot(ctx context.Context, id uint) (slot.Record, error) {
	s, err := t.GetSlot(ctx, id)
	if err != nil {
		return slot.Record{}, err
	}
	return s.Record(), nil
}

// CompareAndBind is a single conditional UPDATE; no row lock is taken
// before it.
func (t *gormTx) CompareAndBind(ctx context.Context, id, appointmentID, expectedVersion uint) (bool, error) {
	res := t.scoped(ctx, &models.Slot{}).
		Where("id = ? AND version = ? AND state IN ?", id, expectedVersion, slot.BindableStates()).
		Updates(map[string]any{
			"state":          slot.StateOccupied,
			"appointment_id": appointmentID,
			"held_until":     nil,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (t *gormTx) ForceRelease(ctx context.Context, id uint) error {
	return t.scoped(ctx, &models.Slot{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"state":          slot.StateAvailable,
			"appointment_id": nil,
			"held_until":     nil,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now(),
		}).Error
}

func (t *gormTx) FindSlotAt(ctx context.Context, professionalID uint, start time.Time) (*models.Slot, error) {
	var s models.Slot
	err := t.scoped(ctx, &models.Slot{}).
		Where("professional_id = ? AND start_time = ?", professionalID, start).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (t *gormTx) ListOpenSlots(ctx context.Context, q domain.SlotQuery) ([]models.Slot, error) {
	if len(q.ProfessionalIDs) == 0 {
		return nil, nil
	}

	db := t.scoped(ctx, &models.Slot{}).
		Where(
			"state = ? AND appointment_id IS NULL AND professional_id IN ? AND start_time >= ? AND end_time <= ?",
			slot.StateAvailable, q.ProfessionalIDs, q.From, q.To,
		).
		Where("EXTRACT(EPOCH FROM (end_time - start_time)) >= ?", q.MinDuration.Seconds()).
		Order("start_time ASC").
		Order("id ASC")

	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}

	var out []models.Slot
	err := db.Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

const auditSavepoint = "audit_write"

// RecordAudit inserts behind a savepoint so a failed insert does not poison
// the transaction.
func (t *gormTx) RecordAudit(ctx context.Context, row *models.AuditLog) error {
	if row.OrganizationID == 0 {
		row.OrganizationID = t.orgID
	}
	if err := t.checkTenant(row.OrganizationID); err != nil {
		return err
	}

	if err := t.db.SavePoint(auditSavepoint).Error; err != nil {
		return err
	}
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		if rbErr := t.db.RollbackTo(auditSavepoint).Error; rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

func (t *gormTx) ListAuditLogs(ctx context.Context, f domain.AuditFilter) ([]models.AuditLog, int64, error) {
	q := t.scoped(ctx, &models.AuditLog{})

	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.AppointmentID != nil {
		q = q.Where("appointment_id = ?", *f.AppointmentID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var out []models.AuditLog
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(f.Offset).
		Find(&out).Error
	return out, total, err
}

// Compile-time check
var (
	_ domain.Store = (*GormStore)(nil)
	_ domain.Tx    = (*gormTx)(nil)
)
