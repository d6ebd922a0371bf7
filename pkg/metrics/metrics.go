// Package metrics exposes Prometheus instruments for strategy outcomes and
// audit-trail failures.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeResolved      = "resolved"
	OutcomeCannotResolve = "cannot_resolve"
)

var (
	// Labels: strategy, outcome (resolved, cannot_resolve)
	strategyOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conflict_resolution",
		Subsystem: "strategy",
		Name:      "outcomes_total",
		Help:      "Resolution attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})

	strategyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "conflict_resolution",
		Subsystem: "strategy",
		Name:      "latency_seconds",
		Help:      "Time spent in a single resolution attempt",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"strategy"})

	auditFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conflict_resolution",
		Name:      "audit_failures_total",
		Help:      "Audit records that could not be written",
	}, []string{"relation"})
)

// RecordOutcome counts one attempt of strategy and observes its duration.
func RecordOutcome(strategy string, resolved bool, elapsed time.Duration) {
	outcome := OutcomeCannotResolve
	if resolved {
		outcome = OutcomeResolved
	}
	strategyOutcomes.WithLabelValues(strategy, outcome).Inc()
	strategyLatency.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func RecordAuditFailure(relation string) {
	auditFailures.WithLabelValues(relation).Inc()
}

// Outcomes returns the counter for strategy/outcome, for inspection in tests
// and diagnostics.
func Outcomes(strategy, outcome string) prometheus.Counter {
	return strategyOutcomes.WithLabelValues(strategy, outcome)
}

func AuditFailures(relation string) prometheus.Counter {
	return auditFailures.WithLabelValues(relation)
}
