package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"veriflow/internal/verification/models"
)

// BiometricClient compares the customer's selfie against the photo on their
// identity document.
//
// Business rules:
//   - A service-reported FAIL is a Fail.
//   - Pass requires confidence AND similarity both strictly above their
//     thresholds; otherwise ManualReview with one reason per unmet threshold.
type BiometricClient struct {
	caller              Caller
	endpoint            string
	timeout             time.Duration
	confidenceThreshold int
	similarityThreshold int
	opts                options
}

// NewBiometric creates a face match client.
func NewBiometric(caller Caller, endpoint string, timeout time.Duration, confidenceThreshold, similarityThreshold int, opts ...Option) *BiometricClient {
	c := &BiometricClient{
		caller:              caller,
		endpoint:            endpoint,
		timeout:             timeout,
		confidenceThreshold: confidenceThreshold,
		similarityThreshold: similarityThreshold,
		opts:                defaultOptions(),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

func (c *BiometricClient) Kind() models.CheckKind {
	return models.CheckBiometric
}

type biometricRequest struct {
	CustomerID string `json:"customer_id"`
	SelfieURL  string `json:"selfie_url"`
	IDPhotoURL string `json:"id_photo_url"`
}

type biometricResponse struct {
	Status          string `json:"status"`
	Confidence      int    `json:"confidence"`
	SimilarityScore int    `json:"similarity_score"`
}

// Evaluate runs the face match check. There is no local precheck.
func (c *BiometricClient) Evaluate(ctx context.Context, subject models.Subject) models.Outcome {
	log := c.opts.logger.With("check", "biometric", "customer_id", subject.CustomerID)
	log.Info("starting biometric verification")

	req := biometricRequest{
		CustomerID: subject.CustomerID,
		SelfieURL:  subject.SelfieURL,
		IDPhotoURL: subject.IDPhotoURL,
	}

	body, err := c.caller.Call(ctx, c.endpoint, req, c.timeout)
	if err != nil {
		log.Error("biometric verification call failed", "error", err)
		return c.opts.outcome(models.CheckBiometric, models.StatusManualReview, 0, []string{callFailureReason(err)})
	}

	var resp biometricResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Error("biometric service returned malformed body", "error", err)
		return c.opts.outcome(models.CheckBiometric, models.StatusManualReview, 0, []string{"Malformed service response"})
	}

	status, reasons := c.score(resp)
	log.Info("biometric verification completed",
		"status", string(status),
		"confidence", resp.Confidence,
		"similarity", resp.SimilarityScore,
	)
	return c.opts.outcome(models.CheckBiometric, status, resp.Confidence, reasons)
}

func (c *BiometricClient) score(resp biometricResponse) (models.Status, []string) {
	if resp.Status == "FAIL" {
		return models.StatusFail, []string{"Face match failed"}
	}
	if resp.Confidence > c.confidenceThreshold && resp.SimilarityScore > c.similarityThreshold {
		return models.StatusPass, nil
	}

	var reasons []string
	if resp.Confidence <= c.confidenceThreshold {
		reasons = append(reasons, fmt.Sprintf("Low confidence score (%d%% <= %d%%)", resp.Confidence, c.confidenceThreshold))
	}
	if resp.SimilarityScore <= c.similarityThreshold {
		reasons = append(reasons, fmt.Sprintf("Low similarity score (%d%% <= %d%%)", resp.SimilarityScore, c.similarityThreshold))
	}
	return models.StatusManualReview, reasons
}
