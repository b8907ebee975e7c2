package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"veriflow/internal/verification/models"
)

// EngineSuite tests the verdict precedence rules.
type EngineSuite struct {
	suite.Suite
	engine *Engine
	now    time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.now = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s.engine = New(WithClock(func() time.Time { return s.now }))
}

func outcome(check models.CheckKind, status models.Status) models.Outcome {
	confidence := 0
	if status == models.StatusPass {
		confidence = 95
	}
	return models.NewOutcome(check, status, confidence, nil, time.Time{})
}

func (s *EngineSuite) TestPrecedence() {
	s.Run("no outcomes means manual review, never approval", func() {
		s.Equal(models.VerdictManualReview, s.engine.Decide(nil, "c1").Verdict)
		s.Equal(models.VerdictManualReview, s.engine.Decide([]models.Outcome{}, "c1").Verdict)
	})

	s.Run("sanctions fail vetoes everything", func() {
		outcomes := []models.Outcome{
			outcome(models.CheckDocument, models.StatusPass),
			outcome(models.CheckBiometric, models.StatusPass),
			outcome(models.CheckAddress, models.StatusPass),
			outcome(models.CheckSanctions, models.StatusFail),
		}
		s.Equal(models.VerdictRejected, s.engine.Decide(outcomes, "c1").Verdict)
	})

	s.Run("sanctions fail vetoes even among other fails and reviews", func() {
		outcomes := []models.Outcome{
			outcome(models.CheckDocument, models.StatusManualReview),
			outcome(models.CheckSanctions, models.StatusFail),
			outcome(models.CheckAddress, models.StatusFail),
		}
		s.Equal(models.VerdictRejected, s.engine.Decide(outcomes, "c1").Verdict)
	})

	s.Run("any fail rejects", func() {
		outcomes := []models.Outcome{
			outcome(models.CheckDocument, models.StatusFail),
			outcome(models.CheckBiometric, models.StatusPass),
			outcome(models.CheckSanctions, models.StatusPass),
		}
		s.Equal(models.VerdictRejected, s.engine.Decide(outcomes, "c1").Verdict)
	})

	s.Run("all pass approves", func() {
		outcomes := []models.Outcome{
			outcome(models.CheckDocument, models.StatusPass),
			outcome(models.CheckBiometric, models.StatusPass),
			outcome(models.CheckAddress, models.StatusPass),
			outcome(models.CheckSanctions, models.StatusPass),
		}
		s.Equal(models.VerdictApproved, s.engine.Decide(outcomes, "c1").Verdict)
	})

	s.Run("mixed pass and review needs review", func() {
		outcomes := []models.Outcome{
			outcome(models.CheckDocument, models.StatusPass),
			outcome(models.CheckBiometric, models.StatusManualReview),
			outcome(models.CheckSanctions, models.StatusPass),
		}
		s.Equal(models.VerdictManualReview, s.engine.Decide(outcomes, "c1").Verdict)
	})

	s.Run("a subset of checks decides correctly", func() {
		outcomes := []models.Outcome{
			outcome(models.CheckSanctions, models.StatusPass),
		}
		s.Equal(models.VerdictApproved, s.engine.Decide(outcomes, "c1").Verdict)
	})
}

func (s *EngineSuite) TestDecisionShape() {
	outcomes := []models.Outcome{
		outcome(models.CheckBiometric, models.StatusPass),
		outcome(models.CheckDocument, models.StatusPass),
	}

	d := s.engine.Decide(outcomes, "corr-123")

	s.Equal("corr-123", d.CorrelationID)
	s.Equal(s.now, d.DecidedAt)
	s.Equal(outcomes, d.Outcomes, "input order is preserved")

	s.Run("nil outcomes normalize to an empty slice", func() {
		d := s.engine.Decide(nil, "corr-123")
		s.NotNil(d.Outcomes)
		s.Empty(d.Outcomes)
	})
}
