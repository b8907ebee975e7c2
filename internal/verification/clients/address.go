package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"veriflow/internal/verification/models"
)

// AddressClient verifies the customer's residential address using a proof
// document.
//
// Business rules:
//   - A proof dated outside the validity window, or with an unparsable date,
//     fails locally, without a call.
//   - A service-reported FAIL is a Fail.
//   - Confidence strictly above the threshold is a Pass, otherwise
//     ManualReview.
type AddressClient struct {
	caller       Caller
	endpoint     string
	timeout      time.Duration
	threshold    int
	validityDays int
	opts         options
}

// NewAddress creates an address verification client.
func NewAddress(caller Caller, endpoint string, timeout time.Duration, threshold, validityDays int, opts ...Option) *AddressClient {
	c := &AddressClient{
		caller:       caller,
		endpoint:     endpoint,
		timeout:      timeout,
		threshold:    threshold,
		validityDays: validityDays,
		opts:         defaultOptions(),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

func (c *AddressClient) Kind() models.CheckKind {
	return models.CheckAddress
}

type addressRequest struct {
	CustomerID string `json:"customer_id"`
	Address    string `json:"address"`
	ProofType  string `json:"proof_type"`
	ProofDate  string `json:"proof_date"`
	ProofURL   string `json:"proof_url"`
}

type addressResponse struct {
	Status     string   `json:"status"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// Evaluate runs the address check. The proof age precheck runs before any
// network traffic.
func (c *AddressClient) Evaluate(ctx context.Context, subject models.Subject) models.Outcome {
	log := c.opts.logger.With("check", "address", "customer_id", subject.CustomerID)
	log.Info("starting address verification")

	if c.proofTooOld(subject.ProofDate) {
		log.Warn("address proof outside validity window", "proof_date", subject.ProofDate, "validity_days", c.validityDays)
		reason := fmt.Sprintf("Proof of address is older than %d days", c.validityDays)
		return c.opts.outcome(models.CheckAddress, models.StatusFail, 0, []string{reason})
	}

	req := addressRequest{
		CustomerID: subject.CustomerID,
		Address:    subject.Address,
		ProofType:  subject.ProofType,
		ProofDate:  subject.ProofDate,
		ProofURL:   subject.ProofURL,
	}

	body, err := c.caller.Call(ctx, c.endpoint, req, c.timeout)
	if err != nil {
		log.Error("address verification call failed", "error", err)
		return c.opts.outcome(models.CheckAddress, models.StatusManualReview, 0, []string{callFailureReason(err)})
	}

	var resp addressResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Error("address service returned malformed body", "error", err)
		return c.opts.outcome(models.CheckAddress, models.StatusManualReview, 0, []string{"Malformed service response"})
	}

	status, reasons := scoreAgainstThreshold(resp.Status, resp.Confidence, c.threshold, resp.Reasons)
	log.Info("address verification completed", "status", string(status), "confidence", resp.Confidence)
	return c.opts.outcome(models.CheckAddress, status, resp.Confidence, reasons)
}

// proofTooOld reports whether the proof date is missing, unparsable, or more
// than validityDays before today.
func (c *AddressClient) proofTooOld(proofDate string) bool {
	if proofDate == "" {
		return true
	}
	date, err := time.Parse(dateLayout, proofDate)
	if err != nil {
		return true
	}
	age := c.opts.now().Sub(date)
	return age > time.Duration(c.validityDays)*24*time.Hour
}
