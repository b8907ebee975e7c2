// Package transport defines the raw call boundary between the verification
// clients and the remote services. The core never depends on a concrete
// protocol; it consumes the Transport interface and classifies the Response
// it gets back.
package transport

import (
	"context"
	"time"
)

// Response captures one attempt against a remote service. Exactly one of
// {a normal status, TimedOut, Err} holds. A Response lives for one attempt
// only; the resilient caller decides whether another attempt follows.
type Response struct {
	StatusCode int
	Body       []byte
	TimedOut   bool
	Err        error
}

// Class is the derived classification of a Response. It determines retry
// eligibility and is never stored.
type Class int

const (
	ClassSuccess Class = iota
	ClassClientError
	ClassServerError
	ClassTimeout
	ClassTransportFailure
)

// String returns the class name for logs and metrics labels.
func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassClientError:
		return "client_error"
	case ClassServerError:
		return "server_error"
	case ClassTimeout:
		return "timeout"
	case ClassTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Class derives the response classification. Timeouts and transport errors
// take precedence over any status code; a status outside 2xx-5xx is treated
// as a transport failure since the service broke its contract.
func (r *Response) Class() Class {
	switch {
	case r.TimedOut:
		return ClassTimeout
	case r.Err != nil:
		return ClassTransportFailure
	case r.StatusCode >= 200 && r.StatusCode < 300:
		return ClassSuccess
	case r.StatusCode >= 400 && r.StatusCode < 500:
		return ClassClientError
	case r.StatusCode >= 500 && r.StatusCode < 600:
		return ClassServerError
	default:
		return ClassTransportFailure
	}
}

// Retryable reports whether another attempt may change the result.
// Client errors are deterministic and never retried.
func (r *Response) Retryable() bool {
	switch r.Class() {
	case ClassServerError, ClassTimeout, ClassTransportFailure:
		return true
	default:
		return false
	}
}

// Transport performs one raw call attempt against a remote endpoint.
// Implementations must honor the per-attempt timeout and must report
// failures through the Response rather than panicking; the resilient
// caller owns all retry policy.
type Transport interface {
	RawCall(ctx context.Context, endpoint string, payload any, timeout time.Duration) *Response
}
