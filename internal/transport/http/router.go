// Package httptransport wires the public HTTP surface: the verification API,
// health probes, and Prometheus metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veriflow/internal/platform/health"
	"veriflow/internal/platform/middleware"
	"veriflow/internal/verification/handler"
)

// NewRouter wires all public endpoints with the middleware stack. The request
// timeout must cover the slowest verification run: the biometric service's
// per-attempt timeout times max attempts plus the full backoff schedule.
func NewRouter(verifications *handler.Handler, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Post("/api/v1/verifications", verifications.Create)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
