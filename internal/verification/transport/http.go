package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPTransport posts JSON payloads to endpoints under a single base URL.
// It is the production Transport implementation; the per-attempt timeout is
// enforced through the request context so a cancelled run aborts the attempt
// immediately.
type HTTPTransport struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient injects a custom HTTP client, e.g. for tests or pooling.
func WithHTTPClient(client HTTPDoer) HTTPOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithAPIKey sets the X-API-Key header sent with every request.
func WithAPIKey(key string) HTTPOption {
	return func(t *HTTPTransport) {
		t.apiKey = key
	}
}

// NewHTTP creates an HTTP transport for endpoints under baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: baseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RawCall posts the payload to baseURL+endpoint and maps the result into a
// Response. A deadline hit surfaces as TimedOut; any other client error is a
// transport failure. Status codes are passed through untouched.
func (t *HTTPTransport) RawCall(ctx context.Context, endpoint string, payload any, timeout time.Duration) *Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Response{Err: fmt.Errorf("marshal request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return &Response{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("X-API-Key", t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return &Response{TimedOut: true}
		}
		return &Response{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return &Response{TimedOut: true}
		}
		return &Response{Err: fmt.Errorf("read response: %w", err)}
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}
}

// Health probes baseURL/health; nil means the upstream answered 200.
// Used by the readiness endpoint, never by the verification path.
func (t *HTTPTransport) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	if t.apiKey != "" {
		req.Header.Set("X-API-Key", t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}
	return nil
}
