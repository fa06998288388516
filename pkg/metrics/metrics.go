// Package metrics exposes the gateway's Prometheus collectors: counters and
// histograms for commands executed, policy decisions, and playbook runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CommandsExecutedTotal counts every command the gateway dispatched to
	// a provider binary, labeled by provider and the resulting error kind
	// ("" on success).
	CommandsExecutedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudgate_commands_executed_total",
		Help: "Total commands dispatched through a provider gateway.",
	}, []string{"provider", "error_kind"})

	// CommandDuration observes wall-clock time spent running a command,
	// including pipeline stages.
	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cloudgate_command_duration_seconds",
		Help:    "Command execution duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	// PolicyDecisionsTotal counts classify+validate outcomes, labeled by
	// tier and whether the command was allowed.
	PolicyDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudgate_policy_decisions_total",
		Help: "Total policy decisions, labeled by risk tier and outcome.",
	}, []string{"tier", "allowed"})

	// PlaybookExecutionsTotal counts playbook runs by terminal status.
	PlaybookExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudgate_playbook_executions_total",
		Help: "Total playbook executions, labeled by terminal status.",
	}, []string{"playbook_id", "status"})

	// ActionDispatchDuration observes how long one action handler took.
	ActionDispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cloudgate_action_dispatch_duration_seconds",
		Help:    "Action handler dispatch duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// CircuitBreakerTripsTotal counts transitions of a provider's circuit
	// breaker into the open state.
	CircuitBreakerTripsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudgate_circuit_breaker_trips_total",
		Help: "Total times a provider's circuit breaker opened.",
	}, []string{"provider"})

	// ConcurrencyRejectionsTotal counts ResourceExhausted responses from a
	// Limiter, labeled by the resource class it guards.
	ConcurrencyRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudgate_concurrency_rejections_total",
		Help: "Total requests rejected due to a saturated concurrency limiter.",
	}, []string{"resource"})
)

// RecordCommand records one command's outcome and duration.
func RecordCommand(provider, errorKind string, d time.Duration) {
	CommandsExecutedTotal.WithLabelValues(provider, errorKind).Inc()
	CommandDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordPolicyDecision records one classify+validate outcome.
func RecordPolicyDecision(tier string, allowed bool) {
	PolicyDecisionsTotal.WithLabelValues(tier, boolLabel(allowed)).Inc()
}

// RecordPlaybookExecution records one playbook run's terminal status.
func RecordPlaybookExecution(playbookID, status string) {
	PlaybookExecutionsTotal.WithLabelValues(playbookID, status).Inc()
}

// RecordActionDispatch records one action handler's duration.
func RecordActionDispatch(kind string, d time.Duration) {
	ActionDispatchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordCircuitBreakerTrip records a provider's breaker opening.
func RecordCircuitBreakerTrip(provider string) {
	CircuitBreakerTripsTotal.WithLabelValues(provider).Inc()
}

// RecordConcurrencyRejection records a Limiter rejecting a caller.
func RecordConcurrencyRejection(resource string) {
	ConcurrencyRejectionsTotal.WithLabelValues(resource).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Handler returns the Prometheus scrape endpoint handler, mounted at
// /metrics by cmd/gatewayd.
func Handler() http.Handler {
	return promhttp.Handler()
}
