package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"veriflow/internal/verification/models"
)

// DocumentClient validates identity documents against the document
// verification service.
//
// Business rules:
//   - An expired or unparsable expiry date fails locally, without a call.
//   - A service-reported FAIL is a Fail.
//   - Confidence strictly above the threshold is a Pass, otherwise
//     ManualReview.
type DocumentClient struct {
	caller    Caller
	endpoint  string
	timeout   time.Duration
	threshold int
	opts      options
}

// NewDocument creates a document verification client.
func NewDocument(caller Caller, endpoint string, timeout time.Duration, threshold int, opts ...Option) *DocumentClient {
	c := &DocumentClient{
		caller:    caller,
		endpoint:  endpoint,
		timeout:   timeout,
		threshold: threshold,
		opts:      defaultOptions(),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

func (c *DocumentClient) Kind() models.CheckKind {
	return models.CheckDocument
}

type documentRequest struct {
	CustomerID       string `json:"customer_id"`
	DocumentType     string `json:"document_type"`
	DocumentNumber   string `json:"document_number"`
	ExpiryDate       string `json:"expiry_date"`
	DocumentImageURL string `json:"document_image_url"`
}

type documentResponse struct {
	Status     string   `json:"status"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// Evaluate runs the document check. The expiry precheck runs before any
// network traffic, so an expired document never consumes a rate-limit slot.
func (c *DocumentClient) Evaluate(ctx context.Context, subject models.Subject) models.Outcome {
	log := c.opts.logger.With("check", "document", "customer_id", subject.CustomerID)
	log.Info("starting document verification")

	if expired(subject.DocumentExpiryDate, c.opts.now()) {
		log.Warn("document expired or expiry date invalid", "expiry_date", subject.DocumentExpiryDate)
		return c.opts.outcome(models.CheckDocument, models.StatusFail, 0, []string{"Document has expired"})
	}

	req := documentRequest{
		CustomerID:       subject.CustomerID,
		DocumentType:     subject.DocumentType,
		DocumentNumber:   maskDocumentNumber(subject.DocumentNumber),
		ExpiryDate:       subject.DocumentExpiryDate,
		DocumentImageURL: subject.DocumentImageURL,
	}

	body, err := c.caller.Call(ctx, c.endpoint, req, c.timeout)
	if err != nil {
		log.Error("document verification call failed", "error", err)
		return c.opts.outcome(models.CheckDocument, models.StatusManualReview, 0, []string{callFailureReason(err)})
	}

	var resp documentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Error("document service returned malformed body", "error", err)
		return c.opts.outcome(models.CheckDocument, models.StatusManualReview, 0, []string{"Malformed service response"})
	}

	status, reasons := scoreAgainstThreshold(resp.Status, resp.Confidence, c.threshold, resp.Reasons)
	log.Info("document verification completed", "status", string(status), "confidence", resp.Confidence)
	return c.opts.outcome(models.CheckDocument, status, resp.Confidence, reasons)
}

// scoreAgainstThreshold applies the shared document/address rule: FAIL from
// the service wins, strictly-above-threshold confidence passes, anything else
// goes to manual review with a reason naming both numbers.
func scoreAgainstThreshold(serviceStatus string, confidence, threshold int, reasons []string) (models.Status, []string) {
	if serviceStatus == "FAIL" {
		return models.StatusFail, reasons
	}
	if confidence > threshold {
		return models.StatusPass, reasons
	}
	reasons = append(reasons, fmt.Sprintf("Confidence score below threshold (%d%% <= %d%%)", confidence, threshold))
	return models.StatusManualReview, reasons
}

// expired reports whether the expiry date is on or before today, or cannot be
// parsed. Missing and malformed dates count as expired.
func expired(expiryDate string, now time.Time) bool {
	if expiryDate == "" {
		return true
	}
	expiry, err := time.Parse(dateLayout, expiryDate)
	if err != nil {
		return true
	}
	return !expiry.After(now.Truncate(24 * time.Hour))
}
