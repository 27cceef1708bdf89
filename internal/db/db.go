package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		return nil, err
	}

	return db, nil
}

// constraints are the invariants AutoMigrate cannot express.
var constraints = []string{
	`DO $$ BEGIN
		ALTER TABLE appointments
			ADD CONSTRAINT chk_appointments_interval CHECK (start_time < end_time);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
		ALTER TABLE slots
			ADD CONSTRAINT chk_slots_interval CHECK (start_time < end_time);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	// one non-terminal appointment per slot
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_live_slot
		ON appointments (slot_id)
		WHERE slot_id IS NOT NULL
		  AND status NOT IN ('completed', 'cancelled', 'no_show')`,

	// no two live appointments of a professional overlap
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`DO $$ BEGIN
		ALTER TABLE appointments
			ADD CONSTRAINT ex_appointments_professional_overlap
			EXCLUDE USING gist (
				organization_id WITH =,
				professional_id WITH =,
				tstzrange(start_time, end_time) WITH &&
			) WHERE (status NOT IN ('cancelled', 'no_show'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`CREATE UNIQUE INDEX IF NOT EXISTS uq_clients_org_phone
		ON clients (organization_id, phone)
		WHERE phone <> ''`,

	`CREATE UNIQUE INDEX IF NOT EXISTS uq_slots_professional_start
		ON slots (organization_id, professional_id, start_time)`,
}

func Migrate(db *gorm.DB, defaultTZ string) error {
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Service{},
		&models.Professional{},
		&models.WorkingHours{},
		&models.ScheduleBlock{},
		&models.Client{},
		&models.Slot{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate constraints: %w", err)
		}
	}

	return db.Exec(`
        UPDATE organizations
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, defaultTZ).Error
}
