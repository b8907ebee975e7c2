// Package handler exposes the verification API over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"veriflow/internal/transport/http/httputil"
	"veriflow/internal/verification/models"
	dErrors "veriflow/pkg/domain-errors"
)

// Runner executes a verification run. Satisfied by the orchestrator.
type Runner interface {
	Run(ctx context.Context, subject models.Subject, kinds []models.CheckKind) (models.Decision, error)
}

// Handler serves verification submissions.
type Handler struct {
	runner Runner
	logger *slog.Logger
}

// Option configures the Handler.
type Option func(*Handler)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a verification handler.
func New(runner Runner, opts ...Option) *Handler {
	h := &Handler{
		runner: runner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create handles POST /api/v1/verifications. The decision is computed
// synchronously and returned in the response body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req verificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	kinds, err := req.kinds()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	d, err := h.runner.Run(r.Context(), req.subject(), kinds)
	if err != nil {
		h.logger.Error("verification run failed", "error", err, "customer_id", req.CustomerID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(d))
}
