// Package tracer provides a lightweight tracing abstraction for the
// verification pipeline.
//
// The interface keeps the pipeline decoupled from OpenTelemetry APIs: the
// resilient caller and orchestrator emit spans through it without knowing
// which backend is wired in.
//
// Implementations:
//   - NoopTracer: for tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context contains the new span and should be passed to
	// child operations. The span must be ended by calling Span.End().
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the verification pipeline.
const (
	SpanRun       = "verification.run"
	SpanCheck     = "verification.check"
	SpanCall      = "verification.call"
	SpanCallRetry = "verification.call.retry"
)

// Attribute keys used by the verification pipeline.
const (
	AttrEndpoint      = "endpoint"
	AttrCheckKind     = "check_kind"
	AttrAttempt       = "attempt"
	AttrStatusCode    = "status_code"
	AttrCorrelationID = "correlation_id"
)
