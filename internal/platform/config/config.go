// Package config resolves all service configuration from environment
// variables into one immutable value constructed once in main. There is no
// process-wide singleton; components receive the parts they need at
// construction time.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Service holds the per-check endpoint and its per-attempt timeout.
type Service struct {
	Endpoint string
	Timeout  time.Duration
}

// Retry holds the retry budget shared by all verification calls.
// Backoff delays beyond the schedule length reuse the last entry.
type Retry struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// RateLimit bounds admissions per endpoint over a sliding window.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Thresholds are the confidence cut-offs applied to successful responses.
// A score must strictly exceed its threshold to pass.
type Thresholds struct {
	DocumentConfidence  int
	BiometricConfidence int
	BiometricSimilarity int
	AddressConfidence   int
}

// Config is the full read-only configuration for the gateway.
type Config struct {
	Addr    string
	BaseURL string
	APIKey  string

	Document  Service
	Biometric Service
	Address   Service
	Sanctions Service

	Thresholds               Thresholds
	AddressProofValidityDays int

	Retry     Retry
	RateLimit RateLimit

	// BreakerFailureThreshold enables the per-endpoint circuit breaker when
	// greater than zero. Zero leaves the breaker disabled.
	BreakerFailureThreshold int
	BreakerCooldown         time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
// Every value has a documented default; invalid values fall back rather
// than aborting startup.
func FromEnv() Config {
	return Config{
		Addr:    getEnv("VERIFLOW_ADDR", ":8080"),
		BaseURL: getEnv("VERIFLOW_SERVICES_BASE_URL", "http://localhost:8081"),
		APIKey:  os.Getenv("VERIFLOW_SERVICES_API_KEY"),

		Document: Service{
			Endpoint: getEnv("VERIFLOW_DOCUMENT_ENDPOINT", "/api/v1/verify-document"),
			Timeout:  getEnvSeconds("VERIFLOW_DOCUMENT_TIMEOUT", 5),
		},
		Biometric: Service{
			Endpoint: getEnv("VERIFLOW_BIOMETRIC_ENDPOINT", "/api/v1/face-match"),
			Timeout:  getEnvSeconds("VERIFLOW_BIOMETRIC_TIMEOUT", 8),
		},
		Address: Service{
			Endpoint: getEnv("VERIFLOW_ADDRESS_ENDPOINT", "/api/v1/verify-address"),
			Timeout:  getEnvSeconds("VERIFLOW_ADDRESS_TIMEOUT", 5),
		},
		Sanctions: Service{
			Endpoint: getEnv("VERIFLOW_SANCTIONS_ENDPOINT", "/api/v1/check-sanctions"),
			Timeout:  getEnvSeconds("VERIFLOW_SANCTIONS_TIMEOUT", 3),
		},

		Thresholds: Thresholds{
			DocumentConfidence:  getEnvInt("VERIFLOW_DOCUMENT_CONFIDENCE_THRESHOLD", 85),
			BiometricConfidence: getEnvInt("VERIFLOW_BIOMETRIC_CONFIDENCE_THRESHOLD", 85),
			BiometricSimilarity: getEnvInt("VERIFLOW_BIOMETRIC_SIMILARITY_THRESHOLD", 85),
			AddressConfidence:   getEnvInt("VERIFLOW_ADDRESS_CONFIDENCE_THRESHOLD", 80),
		},
		AddressProofValidityDays: getEnvInt("VERIFLOW_ADDRESS_PROOF_VALIDITY_DAYS", 90),

		Retry: Retry{
			MaxAttempts: getEnvInt("VERIFLOW_MAX_ATTEMPTS", 3),
			Backoff:     getEnvBackoff("VERIFLOW_RETRY_BACKOFF_MS", []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}),
		},
		RateLimit: RateLimit{
			Requests: getEnvInt("VERIFLOW_RATE_LIMIT_REQUESTS", 10),
			Window:   getEnvSeconds("VERIFLOW_RATE_LIMIT_WINDOW_SECONDS", 60),
		},

		BreakerFailureThreshold: getEnvInt("VERIFLOW_BREAKER_FAILURE_THRESHOLD", 0),
		BreakerCooldown:         getEnvSeconds("VERIFLOW_BREAKER_COOLDOWN_SECONDS", 30),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

// getEnvBackoff parses a comma-separated list of millisecond delays,
// e.g. "1000,2000,4000". Any unparsable entry invalidates the whole list.
func getEnvBackoff(key string, fallback []time.Duration) []time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	delays := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		ms, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || ms < 0 {
			return fallback
		}
		delays = append(delays, time.Duration(ms)*time.Millisecond)
	}
	if len(delays) == 0 {
		return fallback
	}
	return delays
}
