// Package metrics exposes Prometheus instrumentation for the verification
// pipeline. Collectors are registered once on the default registry; consumers
// hold a *Metrics and may be handed nil, in which case every recording method
// is a no-op. Tests pass nil to avoid duplicate registration across packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all verification pipeline collectors.
type Metrics struct {
	callAttempts     *prometheus.CounterVec
	callRetries      *prometheus.CounterVec
	callDenials      *prometheus.CounterVec
	callDuration     *prometheus.HistogramVec
	checkOutcomes    *prometheus.CounterVec
	decisionVerdicts *prometheus.CounterVec
	breakerOpens     *prometheus.CounterVec
}

// New registers and returns the pipeline collectors. Call it once per process.
func New() *Metrics {
	return &Metrics{
		callAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_call_attempts_total",
			Help: "Raw call attempts per endpoint and response class.",
		}, []string{"endpoint", "class"}),
		callRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_call_retries_total",
			Help: "Retried attempts per endpoint.",
		}, []string{"endpoint"}),
		callDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_call_admission_denials_total",
			Help: "Calls denied by the per-endpoint rate limiter.",
		}, []string{"endpoint"}),
		callDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veriflow_call_duration_seconds",
			Help:    "Wall time of a complete call cycle including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		checkOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_check_outcomes_total",
			Help: "Verification outcomes per check kind and status.",
		}, []string{"check", "status"}),
		decisionVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_decision_verdicts_total",
			Help: "Final compliance verdicts.",
		}, []string{"verdict"}),
		breakerOpens: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_breaker_opens_total",
			Help: "Circuit breaker open transitions per endpoint.",
		}, []string{"endpoint"}),
	}
}

// RecordAttempt counts one raw attempt with its response class.
func (m *Metrics) RecordAttempt(endpoint, class string) {
	if m == nil {
		return
	}
	m.callAttempts.WithLabelValues(endpoint, class).Inc()
}

// RecordRetry counts a retried attempt.
func (m *Metrics) RecordRetry(endpoint string) {
	if m == nil {
		return
	}
	m.callRetries.WithLabelValues(endpoint).Inc()
}

// RecordDenial counts an admission denial.
func (m *Metrics) RecordDenial(endpoint string) {
	if m == nil {
		return
	}
	m.callDenials.WithLabelValues(endpoint).Inc()
}

// RecordCallDuration observes the duration of a full call cycle.
func (m *Metrics) RecordCallDuration(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.callDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordOutcome counts a check outcome.
func (m *Metrics) RecordOutcome(check, status string) {
	if m == nil {
		return
	}
	m.checkOutcomes.WithLabelValues(check, status).Inc()
}

// RecordVerdict counts a final verdict.
func (m *Metrics) RecordVerdict(verdict string) {
	if m == nil {
		return
	}
	m.decisionVerdicts.WithLabelValues(verdict).Inc()
}

// RecordBreakerOpen counts a breaker opening.
func (m *Metrics) RecordBreakerOpen(endpoint string) {
	if m == nil {
		return
	}
	m.breakerOpens.WithLabelValues(endpoint).Inc()
}
