package resilience

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a call cycle failed. Clients branch on the kind,
// never on error strings.
type ErrorKind string

const (
	// KindAdmissionDenied means the rate limiter rejected the call before
	// any network attempt was made.
	KindAdmissionDenied ErrorKind = "admission_denied"

	// KindClientError means the service answered with a 4xx. Deterministic,
	// never retried.
	KindClientError ErrorKind = "client_error"

	// KindTimeoutExhausted means every attempt hit the per-attempt deadline.
	KindTimeoutExhausted ErrorKind = "timeout_exhausted"

	// KindServerExhausted means the final attempt failed with a 5xx.
	KindServerExhausted ErrorKind = "server_exhausted"

	// KindTransportExhausted means the final attempt failed below HTTP,
	// e.g. connection refused or a malformed response.
	KindTransportExhausted ErrorKind = "transport_exhausted"

	// KindUnavailable means the circuit breaker for the endpoint is open.
	KindUnavailable ErrorKind = "unavailable"
)

// CallError is the terminal error of a call cycle. StatusCode and Body are
// populated for client errors and for server errors on the last attempt, so
// callers can inspect what the service actually said.
type CallError struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int
	Attempts   int
	Body       []byte
	Err        error
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("call %s: %s (status %d, attempts %d)", e.Endpoint, e.Kind, e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("call %s: %s (attempts %d)", e.Endpoint, e.Kind, e.Attempts)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err, or "" if err is not a CallError.
func KindOf(err error) ErrorKind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
