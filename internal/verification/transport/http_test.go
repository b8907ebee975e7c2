package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// HTTPTransportSuite tests the HTTP transport against a real test server.
type HTTPTransportSuite struct {
	suite.Suite
}

func TestHTTPTransportSuite(t *testing.T) {
	suite.Run(t, new(HTTPTransportSuite))
}

func (s *HTTPTransportSuite) TestSuccessfulPost() {
	var gotPath, gotContentType, gotAPIKey string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAPIKey = r.Header.Get("X-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"PASS"}`))
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL, WithAPIKey("secret"))
	resp := tr.RawCall(context.Background(), "/api/v1/verify-document",
		map[string]string{"customer_id": "C1"}, time.Second)

	s.Equal(ClassSuccess, resp.Class())
	s.Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"status":"PASS"}`, string(resp.Body))
	s.Equal("/api/v1/verify-document", gotPath)
	s.Equal("application/json", gotContentType)
	s.Equal("secret", gotAPIKey)
	s.Equal("C1", gotBody["customer_id"])
}

func (s *HTTPTransportSuite) TestStatusCodesPassThrough() {
	for _, status := range []int{400, 404, 500, 503} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"boom"}`))
		}))

		tr := NewHTTP(srv.URL)
		resp := tr.RawCall(context.Background(), "/x", nil, time.Second)

		s.Equal(status, resp.StatusCode)
		s.False(resp.TimedOut)
		s.NoError(resp.Err)
		s.NotEmpty(resp.Body, "body must survive for status %d", status)
		srv.Close()
	}
}

func (s *HTTPTransportSuite) TestTimeout() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL)
	resp := tr.RawCall(context.Background(), "/x", nil, 50*time.Millisecond)

	s.True(resp.TimedOut)
	s.Equal(ClassTimeout, resp.Class())
}

func (s *HTTPTransportSuite) TestConnectionRefused() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // deliberately closed before the call

	tr := NewHTTP(srv.URL)
	resp := tr.RawCall(context.Background(), "/x", nil, time.Second)

	s.Error(resp.Err)
	s.False(resp.TimedOut)
	s.Equal(ClassTransportFailure, resp.Class())
}

func (s *HTTPTransportSuite) TestUnmarshalablePayload() {
	tr := NewHTTP("http://localhost:0")
	resp := tr.RawCall(context.Background(), "/x", make(chan int), time.Second)

	s.Error(resp.Err)
	s.Equal(ClassTransportFailure, resp.Class())
}

func (s *HTTPTransportSuite) TestHealth() {
	s.Run("healthy upstream", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		s.NoError(NewHTTP(srv.URL).Health(context.Background()))
	})

	s.Run("unhealthy upstream", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		s.Error(NewHTTP(srv.URL).Health(context.Background()))
	})
}
