// Package main wires the verification server: configuration, the resilient
// call layer, the four verification clients, the decision engine, and the
// HTTP surface. Business logic lives in the internal packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"veriflow/internal/decision"
	"veriflow/internal/platform/config"
	"veriflow/internal/platform/health"
	"veriflow/internal/platform/httpserver"
	"veriflow/internal/platform/logger"
	"veriflow/internal/ratelimit"
	httptransport "veriflow/internal/transport/http"
	"veriflow/internal/verification/clients"
	"veriflow/internal/verification/handler"
	"veriflow/internal/verification/metrics"
	"veriflow/internal/verification/orchestrator"
	"veriflow/internal/verification/resilience"
	"veriflow/internal/verification/tracer"
	"veriflow/internal/verification/transport"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing veriflow",
		"addr", cfg.Addr,
		"services_base_url", cfg.BaseURL,
	)

	m := metrics.New()
	trc := tracer.NewOTel()

	httpTransport := transport.NewHTTP(cfg.BaseURL, transport.WithAPIKey(cfg.APIKey))
	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	caller := resilience.New(httpTransport, cfg.Retry.MaxAttempts, cfg.Retry.Backoff,
		resilience.WithLimiter(limiter),
		resilience.WithBreaker(cfg.BreakerFailureThreshold, cfg.BreakerCooldown),
		resilience.WithLogger(log),
		resilience.WithMetrics(m),
		resilience.WithTracer(trc),
	)

	clientOpts := []clients.Option{
		clients.WithLogger(log),
		clients.WithMetrics(m),
	}
	checkClients := []clients.Client{
		clients.NewDocument(caller, cfg.Document.Endpoint, cfg.Document.Timeout,
			cfg.Thresholds.DocumentConfidence, clientOpts...),
		clients.NewBiometric(caller, cfg.Biometric.Endpoint, cfg.Biometric.Timeout,
			cfg.Thresholds.BiometricConfidence, cfg.Thresholds.BiometricSimilarity, clientOpts...),
		clients.NewAddress(caller, cfg.Address.Endpoint, cfg.Address.Timeout,
			cfg.Thresholds.AddressConfidence, cfg.AddressProofValidityDays, clientOpts...),
		clients.NewSanctions(caller, cfg.Sanctions.Endpoint, cfg.Sanctions.Timeout, clientOpts...),
	}

	engine := decision.New(decision.WithLogger(log), decision.WithMetrics(m))
	orch := orchestrator.New(engine, checkClients,
		orchestrator.WithLogger(log),
		orchestrator.WithTracer(trc),
	)

	verifications := handler.New(orch, handler.WithLogger(log))

	healthHandler := health.New()
	healthHandler.RegisterCheck("verification_services", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return httpTransport.Health(ctx)
	})

	router := httptransport.NewRouter(verifications, healthHandler, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
