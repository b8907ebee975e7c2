// Package orchestrator coordinates a verification run: it fans the requested
// checks out to their clients in parallel, joins the outcomes in requested
// order, and hands them to the decision engine.
package orchestrator

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"veriflow/internal/decision"
	"veriflow/internal/platform/middleware"
	"veriflow/internal/verification/clients"
	"veriflow/internal/verification/models"
	"veriflow/internal/verification/tracer"
	dErrors "veriflow/pkg/domain-errors"
)

// Orchestrator runs verification checks and produces decisions.
type Orchestrator struct {
	clients map[models.CheckKind]clients.Client
	engine  *decision.Engine
	logger  *slog.Logger
	tracer  tracer.Tracer
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// New creates an orchestrator over the given clients and decision engine.
// Each client registers under its own Kind; later duplicates win.
func New(engine *decision.Engine, cs []clients.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		clients: make(map[models.CheckKind]clients.Client, len(cs)),
		engine:  engine,
		logger:  slog.Default(),
		tracer:  tracer.NewNoop(),
	}
	for _, c := range cs {
		o.clients[c.Kind()] = c
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run evaluates the requested checks for the subject and returns the
// decision. Checks run in parallel; the outcome list preserves the requested
// order, not completion order. Kinds without a registered client fail the
// run before any client is invoked, so no rate-limit slots are consumed.
func (o *Orchestrator) Run(ctx context.Context, subject models.Subject, kinds []models.CheckKind) (models.Decision, error) {
	correlationID := middleware.GetCorrelationID(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	ctx, span := o.tracer.Start(ctx, tracer.SpanRun,
		tracer.String(tracer.AttrCorrelationID, correlationID),
		tracer.Int("check_count", len(kinds)),
	)

	for _, kind := range kinds {
		if _, ok := o.clients[kind]; !ok {
			err := dErrors.New(dErrors.CodeInvalidInput, "no client registered for check kind: "+string(kind))
			span.End(err)
			return models.Decision{}, err
		}
	}

	log := o.logger.With("correlation_id", correlationID, "customer_id", subject.CustomerID)
	log.Info("starting verification run", "checks", len(kinds))

	// Each goroutine writes only its own slot, so the join needs no lock
	// and the slice order stays the requested order.
	outcomes := make([]models.Outcome, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		client := o.clients[kind]
		g.Go(func() error {
			cctx, cspan := o.tracer.Start(gctx, tracer.SpanCheck,
				tracer.String(tracer.AttrCheckKind, string(kind)),
			)
			outcomes[i] = client.Evaluate(cctx, subject)
			cspan.End(nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Clients never return errors; this only fires on a programming error.
		span.End(err)
		return models.Decision{}, err
	}

	d := o.engine.Decide(outcomes, correlationID)
	log.Info("verification run complete", "verdict", string(d.Verdict))
	span.SetAttributes(tracer.String("verdict", string(d.Verdict)))
	span.End(nil)
	return d, nil
}

// RunFull evaluates all four checks in the canonical order.
func (o *Orchestrator) RunFull(ctx context.Context, subject models.Subject) (models.Decision, error) {
	return o.Run(ctx, subject, models.AllChecks)
}
