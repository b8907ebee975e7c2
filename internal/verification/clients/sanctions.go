package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"veriflow/internal/verification/models"
)

// SanctionsClient screens the customer against global sanctions lists. This
// is the one check that can never be approved on failure: any match is an
// absolute veto, and an unreachable service always lands in manual review.
type SanctionsClient struct {
	caller   Caller
	endpoint string
	timeout  time.Duration
	opts     options
}

// NewSanctions creates a sanctions screening client.
func NewSanctions(caller Caller, endpoint string, timeout time.Duration, opts ...Option) *SanctionsClient {
	c := &SanctionsClient{
		caller:   caller,
		endpoint: endpoint,
		timeout:  timeout,
		opts:     defaultOptions(),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

func (c *SanctionsClient) Kind() models.CheckKind {
	return models.CheckSanctions
}

type sanctionsRequest struct {
	CustomerID  string `json:"customer_id"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Nationality string `json:"nationality"`
}

type sanctionsMatch struct {
	Name string `json:"name"`
	List string `json:"list"`
}

type sanctionsResponse struct {
	Status     string           `json:"status"`
	MatchCount int              `json:"match_count"`
	Matches    []sanctionsMatch `json:"matches"`
}

// Evaluate runs the sanctions screen. HIT or any positive match count is a
// Fail with confidence forced to 0; CLEAR is a Pass with confidence 100; an
// unrecognized status goes to manual review rather than being trusted.
func (c *SanctionsClient) Evaluate(ctx context.Context, subject models.Subject) models.Outcome {
	log := c.opts.logger.With("check", "sanctions", "customer_id", subject.CustomerID)
	log.Info("starting sanctions screening")

	req := sanctionsRequest{
		CustomerID:  subject.CustomerID,
		FullName:    subject.FullName,
		DateOfBirth: subject.DateOfBirth,
		Nationality: subject.Nationality,
	}

	body, err := c.caller.Call(ctx, c.endpoint, req, c.timeout)
	if err != nil {
		log.Error("sanctions screening call failed", "error", err)
		reason := "Sanctions screening unavailable: " + callFailureReason(err)
		return c.opts.outcome(models.CheckSanctions, models.StatusManualReview, 0, []string{reason})
	}

	var resp sanctionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Error("sanctions service returned malformed body", "error", err)
		return c.opts.outcome(models.CheckSanctions, models.StatusManualReview, 0, []string{"Malformed service response"})
	}

	var reasons []string
	for _, m := range resp.Matches {
		name, list := m.Name, m.List
		if name == "" {
			name = "Unknown"
		}
		if list == "" {
			list = "Unknown List"
		}
		reasons = append(reasons, fmt.Sprintf("Match found: %s on %s", name, list))
	}

	switch {
	case resp.Status == "HIT" || resp.MatchCount > 0:
		if len(reasons) == 0 {
			reasons = append(reasons, fmt.Sprintf("Sanctions match found (%d match(es))", resp.MatchCount))
		}
		log.Warn("sanctions hit", "match_count", resp.MatchCount)
		return c.opts.outcome(models.CheckSanctions, models.StatusFail, 0, reasons)

	case resp.Status == "CLEAR":
		log.Info("sanctions screening clear")
		return c.opts.outcome(models.CheckSanctions, models.StatusPass, 100, reasons)

	default:
		reasons = append(reasons, "Unknown sanctions status: "+resp.Status)
		log.Warn("unknown sanctions status", "status", resp.Status)
		return c.opts.outcome(models.CheckSanctions, models.StatusManualReview, 0, reasons)
	}
}
