package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scheduler"

var (
	transitionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_operations_total",
			Help:      "Count of appointment operations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	slotConflictsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_conflicts_total",
			Help:      "Count of slot binds that lost an optimistic concurrency race.",
		},
	)
	walkInsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walk_ins_total",
			Help:      "Count of walk-ins by placement mode.",
		},
		[]string{"mode"},
	)
	matcherCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matcher_outcomes_total",
			Help:      "Count of automatic slot matcher outcomes.",
		},
		[]string{"outcome"},
	)
	validatorWarningsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validator_warnings_total",
			Help:      "Count of non-blocking schedule validator warnings by code.",
		},
		[]string{"code"},
	)
	auditFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Count of audit writes that failed and were skipped.",
		},
	)
)

var registerMetrics sync.Once

// Register all metrics.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(transitionsCounter)
		reg.MustRegister(slotConflictsCounter)
		reg.MustRegister(walkInsCounter)
		reg.MustRegister(matcherCounter)
		reg.MustRegister(validatorWarningsCounter)
		reg.MustRegister(auditFailuresCounter)
	})
}

// RecordOperation counts an appointment operation. outcome is "ok" or the
// error kind.
func RecordOperation(operation, outcome string) {
	transitionsCounter.WithLabelValues(operation, outcome).Inc()
}

func RecordSlotConflict() {
	slotConflictsCounter.Inc()
}

func RecordWalkIn(mode string) {
	walkInsCounter.WithLabelValues(mode).Inc()
}

func RecordMatcherOutcome(outcome string) {
	matcherCounter.WithLabelValues(outcome).Inc()
}

func RecordValidatorWarning(code string) {
	validatorWarningsCounter.WithLabelValues(code).Inc()
}

func RecordAuditFailure() {
	auditFailuresCounter.Inc()
}
