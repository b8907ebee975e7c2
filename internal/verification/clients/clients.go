// Package clients implements the four verification checks. Each client owns
// one remote service: it runs local prechecks, shapes the request payload,
// calls through the resilient caller, and folds the service's answer plus the
// business thresholds into a single Outcome.
//
// Clients never return errors. Every failure mode, including an exhausted
// call cycle, maps to an Outcome so the decision engine always has a complete
// picture.
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"veriflow/internal/verification/metrics"
	"veriflow/internal/verification/models"
	"veriflow/internal/verification/resilience"
)

// dateLayout is the wire format for all date fields.
const dateLayout = "2006-01-02"

// Caller executes a complete call cycle against a remote endpoint.
type Caller interface {
	Call(ctx context.Context, endpoint string, payload any, timeout time.Duration) ([]byte, error)
}

// Client evaluates one verification check for a subject.
type Client interface {
	Kind() models.CheckKind
	Evaluate(ctx context.Context, subject models.Subject) models.Outcome
}

// Option configures a verification client.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
		now:    time.Now,
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. Nil disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// outcome records the metric and builds the final Outcome in one place so no
// client can forget the bookkeeping.
func (o *options) outcome(check models.CheckKind, status models.Status, confidence int, reasons []string) models.Outcome {
	o.metrics.RecordOutcome(string(check), string(status))
	return models.NewOutcome(check, status, confidence, reasons, o.now())
}

// callFailureReason translates a terminal call error into an audit reason.
func callFailureReason(err error) string {
	switch resilience.KindOf(err) {
	case resilience.KindAdmissionDenied:
		return "Service call denied by rate limiter"
	case resilience.KindUnavailable:
		return "Service temporarily unavailable"
	default:
		return fmt.Sprintf("Service call failed: %v", err)
	}
}

// maskDocumentNumber hides all but the last four characters of a document
// number before it leaves the process. Short or empty numbers mask entirely.
func maskDocumentNumber(number string) string {
	if len(number) <= 4 {
		return "****"
	}
	return "****" + number[len(number)-4:]
}
