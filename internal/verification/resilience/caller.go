// Package resilience wraps the raw transport with retry, backoff, admission
// control and circuit breaking. It owns the complete call cycle: everything
// above it sees either a response body or a classified CallError.
package resilience

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"veriflow/internal/verification/metrics"
	"veriflow/internal/verification/tracer"
	"veriflow/internal/verification/transport"
	"veriflow/pkg/circuit"
)

// Limiter admits or denies a call for the given key. Implementations must be
// safe for concurrent use.
type Limiter interface {
	Allow(key string) bool
}

// Caller executes call cycles against remote endpoints. A cycle is admission
// check, attempt, and bounded retries with backoff; the caller never retries
// client errors and never exceeds maxAttempts transport attempts.
type Caller struct {
	transport   transport.Transport
	limiter     Limiter
	maxAttempts int
	backoff     []time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer

	breakerThreshold int
	breakerCooldown  time.Duration
	mu               sync.Mutex
	breakers         map[string]*circuit.Breaker
}

// Option configures a Caller.
type Option func(*Caller)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Caller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. Nil disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Caller) {
		c.metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Caller) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithLimiter sets the admission limiter consulted before every attempt.
// Nil means unlimited.
func WithLimiter(l Limiter) Option {
	return func(c *Caller) {
		c.limiter = l
	}
}

// WithBreaker enables per-endpoint circuit breaking. A threshold of zero
// leaves breaking disabled.
func WithBreaker(failureThreshold int, cooldown time.Duration) Option {
	return func(c *Caller) {
		c.breakerThreshold = failureThreshold
		c.breakerCooldown = cooldown
	}
}

// New creates a Caller. maxAttempts below 1 is clamped to 1; an empty backoff
// schedule means retries proceed without delay.
func New(t transport.Transport, maxAttempts int, backoff []time.Duration, opts ...Option) *Caller {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	c := &Caller{
		transport:   t,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
		breakers:    make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call runs one complete call cycle against endpoint and returns the success
// body or a *CallError. The limiter is consulted before every attempt; a
// denial ends the cycle immediately without a transport call. Context
// cancellation during backoff aborts the cycle with ctx.Err().
func (c *Caller) Call(ctx context.Context, endpoint string, payload any, timeout time.Duration) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanCall, tracer.String(tracer.AttrEndpoint, endpoint))

	breaker := c.breakerFor(endpoint)
	if breaker != nil && !breaker.Allow() {
		err := &CallError{Kind: KindUnavailable, Endpoint: endpoint}
		c.logger.Warn("call rejected, circuit open", "endpoint", endpoint)
		span.End(err)
		return nil, err
	}

	start := time.Now()
	defer func() {
		c.metrics.RecordCallDuration(endpoint, time.Since(start))
	}()

	var last *transport.Response
	attempts := 0
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if c.limiter != nil && !c.limiter.Allow(endpoint) {
			c.metrics.RecordDenial(endpoint)
			// The denied admission counts as the attempt that ended the cycle.
			err := &CallError{Kind: KindAdmissionDenied, Endpoint: endpoint, Attempts: attempt}
			c.logger.Warn("call denied by rate limiter", "endpoint", endpoint, "attempt", attempt)
			span.End(err)
			return nil, err
		}

		resp := c.transport.RawCall(ctx, endpoint, payload, timeout)
		attempts = attempt
		class := resp.Class()
		c.metrics.RecordAttempt(endpoint, class.String())

		switch class {
		case transport.ClassSuccess:
			if breaker != nil {
				breaker.RecordSuccess()
			}
			if attempt > 1 {
				c.logger.Info("call succeeded after retries", "endpoint", endpoint, "attempts", attempt)
			}
			span.SetAttributes(tracer.Int(tracer.AttrAttempt, attempt))
			span.End(nil)
			return resp.Body, nil

		case transport.ClassClientError:
			// Deterministic rejection: retrying cannot help, and the
			// breaker stays untouched since the service is healthy.
			err := &CallError{
				Kind:       KindClientError,
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Attempts:   attempt,
				Body:       resp.Body,
			}
			c.logger.Warn("call rejected by service", "endpoint", endpoint, "status", resp.StatusCode)
			span.SetAttributes(tracer.Int(tracer.AttrStatusCode, resp.StatusCode))
			span.End(err)
			return nil, err
		}

		last = resp
		if attempt == c.maxAttempts {
			break
		}

		delay := c.delayFor(attempt)
		c.logger.Warn("call attempt failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt,
			"class", class.String(),
			"delay", delay,
		)
		c.metrics.RecordRetry(endpoint)
		span.AddEvent(tracer.SpanCallRetry,
			tracer.Int(tracer.AttrAttempt, attempt),
			tracer.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			span.End(ctx.Err())
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	err := c.exhausted(endpoint, attempts, last)
	if breaker != nil {
		if change := breaker.RecordFailure(); change.Opened {
			c.metrics.RecordBreakerOpen(endpoint)
			c.logger.Error("circuit opened", "endpoint", endpoint)
		}
	}
	c.logger.Error("call exhausted all attempts",
		"endpoint", endpoint,
		"attempts", attempts,
		"kind", string(KindOf(err)),
	)
	span.End(err)
	return nil, err
}

// delayFor returns the backoff delay after the given attempt number. The
// schedule's last entry repeats when attempts outnumber entries.
func (c *Caller) delayFor(attempt int) time.Duration {
	if len(c.backoff) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(c.backoff) {
		idx = len(c.backoff) - 1
	}
	return c.backoff[idx]
}

// exhausted builds the terminal error from the last failed attempt.
func (c *Caller) exhausted(endpoint string, attempts int, last *transport.Response) *CallError {
	switch last.Class() {
	case transport.ClassTimeout:
		return &CallError{Kind: KindTimeoutExhausted, Endpoint: endpoint, Attempts: attempts}
	case transport.ClassServerError:
		return &CallError{
			Kind:       KindServerExhausted,
			Endpoint:   endpoint,
			StatusCode: last.StatusCode,
			Attempts:   attempts,
			Body:       last.Body,
		}
	default:
		return &CallError{Kind: KindTransportExhausted, Endpoint: endpoint, Attempts: attempts, Err: last.Err}
	}
}

// breakerFor returns the endpoint's breaker, creating it on first use.
// Returns nil when breaking is disabled.
func (c *Caller) breakerFor(endpoint string) *circuit.Breaker {
	if c.breakerThreshold <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.breakers[endpoint]
	if !ok {
		b = circuit.New(endpoint,
			circuit.WithFailureThreshold(c.breakerThreshold),
			circuit.WithCooldown(c.breakerCooldown),
		)
		c.breakers[endpoint] = b
	}
	return b
}
