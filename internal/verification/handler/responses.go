package handler

import (
	"time"

	"veriflow/internal/verification/models"
)

type outcomeResponse struct {
	Check      string    `json:"check"`
	Status     string    `json:"status"`
	Confidence int       `json:"confidence"`
	Reasons    []string  `json:"reasons"`
	ProducedAt time.Time `json:"produced_at"`
}

type decisionResponse struct {
	Verdict       string            `json:"verdict"`
	Outcomes      []outcomeResponse `json:"outcomes"`
	CorrelationID string            `json:"correlation_id"`
	DecidedAt     time.Time         `json:"decided_at"`
}

func toDecisionResponse(d models.Decision) decisionResponse {
	outcomes := make([]outcomeResponse, 0, len(d.Outcomes))
	for _, o := range d.Outcomes {
		outcomes = append(outcomes, outcomeResponse{
			Check:      string(o.Check),
			Status:     string(o.Status),
			Confidence: o.Confidence,
			Reasons:    o.Reasons,
			ProducedAt: o.ProducedAt,
		})
	}
	return decisionResponse{
		Verdict:       string(d.Verdict),
		Outcomes:      outcomes,
		CorrelationID: d.CorrelationID,
		DecidedAt:     d.DecidedAt,
	}
}
