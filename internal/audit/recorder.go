package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/service-scheduler/internal/metrics"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Sink is the unit of work's audit writer. A failed write must leave the
// enclosing transaction usable.
type Sink interface {
	RecordAudit(ctx context.Context, row *models.AuditLog) error
}

// Recorder appends audit rows inside the caller's unit of work. Failures are
// logged and swallowed.
type Recorder struct {
	log zerolog.Logger
}

func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log}
}

func (r *Recorder) Record(ctx context.Context, sink Sink, ev Event) {
	if err := sink.RecordAudit(ctx, ev.Row()); err != nil {
		metrics.RecordAuditFailure()
		r.log.Warn().
			Err(err).
			Uint("organization_id", ev.OrganizationID).
			Str("kind", ev.Kind).
			Msg("audit write skipped")
	}
}
