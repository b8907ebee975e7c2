// Package models holds the domain types shared across the verification
// pipeline: check kinds, outcomes, the subject under verification, and the
// terminal decision.
package models

import (
	"time"

	dErrors "veriflow/pkg/domain-errors"
)

// CheckKind identifies one of the four verification categories.
type CheckKind string

const (
	CheckDocument  CheckKind = "document"
	CheckBiometric CheckKind = "biometric"
	CheckAddress   CheckKind = "address"
	CheckSanctions CheckKind = "sanctions"
)

// AllChecks lists every check kind in the canonical full-verification order.
var AllChecks = []CheckKind{CheckDocument, CheckBiometric, CheckAddress, CheckSanctions}

// ParseCheckKind validates and parses a check kind string.
// Call at trust boundaries for external input.
func ParseCheckKind(s string) (CheckKind, error) {
	switch CheckKind(s) {
	case CheckDocument, CheckBiometric, CheckAddress, CheckSanctions:
		return CheckKind(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown check kind: "+s)
	}
}

// Status is the typed result of a single verification check.
type Status string

const (
	StatusPass         Status = "pass"
	StatusFail         Status = "fail"
	StatusManualReview Status = "manual_review"
)

// Outcome is the immutable result of one verification check. Reasons may be
// empty but never nil, so downstream consumers can range without guards.
type Outcome struct {
	Check      CheckKind `json:"check"`
	Status     Status    `json:"status"`
	Confidence int       `json:"confidence"`
	Reasons    []string  `json:"reasons"`
	ProducedAt time.Time `json:"produced_at"`
}

// NewOutcome builds an outcome, normalizing a nil reasons slice to empty.
func NewOutcome(check CheckKind, status Status, confidence int, reasons []string, producedAt time.Time) Outcome {
	if reasons == nil {
		reasons = []string{}
	}
	return Outcome{
		Check:      check,
		Status:     status,
		Confidence: confidence,
		Reasons:    reasons,
		ProducedAt: producedAt,
	}
}

// Verdict is the terminal decision over a set of outcomes.
type Verdict string

const (
	VerdictApproved     Verdict = "approved"
	VerdictRejected     Verdict = "rejected"
	VerdictManualReview Verdict = "manual_review"
)

// Decision is the terminal artifact of one orchestration run. The outcomes
// slice preserves evaluation order (the order checks were requested in).
type Decision struct {
	Verdict       Verdict   `json:"verdict"`
	Outcomes      []Outcome `json:"outcomes"`
	CorrelationID string    `json:"correlation_id"`
	DecidedAt     time.Time `json:"decided_at"`
}

// Subject carries the customer data consumed by the verification clients.
// Dates are ISO 8601 (2006-01-02) strings as supplied by the intake layer;
// clients parse and validate the fields they use.
type Subject struct {
	CustomerID  string `json:"customer_id"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Nationality string `json:"nationality"`

	DocumentType       string `json:"document_type"`
	DocumentNumber     string `json:"document_number"`
	DocumentExpiryDate string `json:"document_expiry_date"`
	DocumentImageURL   string `json:"document_image_url"`

	SelfieURL  string `json:"selfie_url"`
	IDPhotoURL string `json:"id_photo_url"`

	Address   string `json:"address"`
	ProofType string `json:"proof_type"`
	ProofDate string `json:"proof_date"`
	ProofURL  string `json:"proof_url"`
}
