package audit

import (
	"context"

	"gorm.io/gorm"
)

// Logger writes audit rows outside of any unit of work.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	return l.db.WithContext(ctx).Create(ev.Row()).Error
}
