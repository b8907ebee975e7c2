// Mock verification services for local development and e2e tests. Serves all
// four remote endpoints on one port with deterministic, magic-value driven
// behavior so tests can exercise every outcome path.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8081"
	defaultLatencyMs = "50"
)

var latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)

// Magic customer_id prefixes control the mock's behavior:
//
//	ERR-...   every endpoint answers 500
//	SLOW-...  every endpoint sleeps 10s before answering (forces timeouts)
//	BAD-...   every endpoint answers 400
//	FAIL-DOC / LOW-DOC    document FAIL / low confidence
//	FAIL-BIO / LOW-BIO    face match FAIL / low scores
//	FAIL-ADDR / LOW-ADDR  address FAIL / low confidence
//
// Sanctions hits key off full_name instead, see sanctionedNames.
var sanctionedNames = map[string]string{
	"Viktor Sanktov": "OFAC SDN List",
	"Elena Blokova":  "EU Consolidated List",
	"SANCTIONED":     "OFAC SDN List",
}

type verifyRequest struct {
	CustomerID string `json:"customer_id"`
	FullName   string `json:"full_name"`
}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/api/v1/verify-document", simulated(handleDocument))
	http.HandleFunc("/api/v1/face-match", simulated(handleBiometric))
	http.HandleFunc("/api/v1/verify-address", simulated(handleAddress))
	http.HandleFunc("/api/v1/check-sanctions", simulated(handleSanctions))

	log.Printf("🔍 Mock verification services starting on port %s", port)
	log.Printf("⏱️  Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "verification-services",
		"version": "1.0.0",
	})
}

// simulated wraps a handler with latency, method enforcement, and the shared
// magic failure prefixes.
func simulated(next func(http.ResponseWriter, verifyRequest)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(latencyMs) * time.Millisecond)
		log.Printf("📥 %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		switch {
		case strings.HasPrefix(req.CustomerID, "ERR-"):
			sendError(w, "Simulated internal error", http.StatusInternalServerError)
			return
		case strings.HasPrefix(req.CustomerID, "BAD-"):
			sendError(w, "Simulated validation rejection", http.StatusBadRequest)
			return
		case strings.HasPrefix(req.CustomerID, "SLOW-"):
			time.Sleep(10 * time.Second)
		}

		next(w, req)
	}
}

func handleDocument(w http.ResponseWriter, req verifyRequest) {
	switch {
	case strings.HasPrefix(req.CustomerID, "FAIL-DOC"):
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "FAIL",
			"confidence": 20,
			"reasons":    []string{"Document appears tampered"},
		})
	case strings.HasPrefix(req.CustomerID, "LOW-DOC"):
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "PASS",
			"confidence": 70,
			"reasons":    []string{},
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "PASS",
			"confidence": 95,
			"reasons":    []string{},
		})
	}
}

func handleBiometric(w http.ResponseWriter, req verifyRequest) {
	switch {
	case strings.HasPrefix(req.CustomerID, "FAIL-BIO"):
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           "FAIL",
			"confidence":       15,
			"similarity_score": 10,
		})
	case strings.HasPrefix(req.CustomerID, "LOW-BIO"):
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           "PASS",
			"confidence":       70,
			"similarity_score": 65,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           "PASS",
			"confidence":       92,
			"similarity_score": 95,
		})
	}
}

func handleAddress(w http.ResponseWriter, req verifyRequest) {
	switch {
	case strings.HasPrefix(req.CustomerID, "FAIL-ADDR"):
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "FAIL",
			"confidence": 30,
			"reasons":    []string{"Address does not match proof document"},
		})
	case strings.HasPrefix(req.CustomerID, "LOW-ADDR"):
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "PASS",
			"confidence": 75,
			"reasons":    []string{},
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "PASS",
			"confidence": 88,
			"reasons":    []string{},
		})
	}
}

func handleSanctions(w http.ResponseWriter, req verifyRequest) {
	if list, ok := sanctionedNames[req.FullName]; ok {
		log.Printf("🚨 Sanctions HIT for %s", req.FullName)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "HIT",
			"match_count": 1,
			"matches": []map[string]string{
				{"name": req.FullName, "list": list},
			},
		})
		return
	}

	if strings.HasPrefix(req.CustomerID, "PENDING-SANC") {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "PENDING",
			"match_count": 0,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "CLEAR",
		"match_count": 0,
		"matches":     []map[string]string{},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func sendError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	v := getEnv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		n, _ = strconv.Atoi(fallback)
	}
	return n
}
