// Package decision turns a set of verification outcomes into a terminal
// compliance verdict. The engine is pure: no I/O, no failure modes, a valid
// Decision for every input shape including an empty one.
package decision

import (
	"log/slog"
	"time"

	"veriflow/internal/verification/metrics"
	"veriflow/internal/verification/models"
)

// Engine evaluates the verdict rules in fixed precedence order.
type Engine struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. Nil disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates a decision engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide reduces outcomes to a verdict. Rules apply in strict precedence,
// first match wins:
//
//  1. no outcomes: manual review, never an approval on zero evidence
//  2. any sanctions fail: rejected, absolute veto
//  3. any fail: rejected
//  4. all pass: approved
//  5. otherwise: manual review
//
// The outcomes slice is passed through in its original order.
func (e *Engine) Decide(outcomes []models.Outcome, correlationID string) models.Decision {
	verdict := verdictFor(outcomes)

	e.metrics.RecordVerdict(string(verdict))
	e.logger.Info("decision made",
		"verdict", string(verdict),
		"outcome_count", len(outcomes),
		"correlation_id", correlationID,
	)

	if outcomes == nil {
		outcomes = []models.Outcome{}
	}
	return models.Decision{
		Verdict:       verdict,
		Outcomes:      outcomes,
		CorrelationID: correlationID,
		DecidedAt:     e.now(),
	}
}

func verdictFor(outcomes []models.Outcome) models.Verdict {
	switch {
	case len(outcomes) == 0:
		return models.VerdictManualReview
	case hasSanctionsFail(outcomes):
		return models.VerdictRejected
	case hasFail(outcomes):
		return models.VerdictRejected
	case allPass(outcomes):
		return models.VerdictApproved
	default:
		return models.VerdictManualReview
	}
}

func hasSanctionsFail(outcomes []models.Outcome) bool {
	for _, o := range outcomes {
		if o.Check == models.CheckSanctions && o.Status == models.StatusFail {
			return true
		}
	}
	return false
}

func hasFail(outcomes []models.Outcome) bool {
	for _, o := range outcomes {
		if o.Status == models.StatusFail {
			return true
		}
	}
	return false
}

func allPass(outcomes []models.Outcome) bool {
	for _, o := range outcomes {
		if o.Status != models.StatusPass {
			return false
		}
	}
	return true
}
