package clients

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"veriflow/internal/verification/models"
	"veriflow/pkg/testutil"
)

// BiometricClientSuite tests the dual-threshold face match rule.
type BiometricClientSuite struct {
	suite.Suite
	caller *fakeCaller
}

func TestBiometricClientSuite(t *testing.T) {
	suite.Run(t, new(BiometricClientSuite))
}

func (s *BiometricClientSuite) SetupTest() {
	s.caller = &fakeCaller{}
}

func (s *BiometricClientSuite) evaluate() models.Outcome {
	client := NewBiometric(s.caller, "/api/v1/face-match", 8*time.Second, 85, 85,
		WithClock(func() time.Time { return fixedNow }))
	return client.Evaluate(context.Background(), testutil.NewSubject(fixedNow).Build())
}

func (s *BiometricClientSuite) TestThresholding() {
	s.Run("both scores above thresholds pass", func() {
		s.caller.body = []byte(`{"status":"PASS","confidence":92,"similarity_score":95}`)

		outcome := s.evaluate()

		s.Equal(models.StatusPass, outcome.Status)
		s.Equal(92, outcome.Confidence)
		s.Empty(outcome.Reasons)
	})

	s.Run("low confidence alone needs review", func() {
		s.caller.body = []byte(`{"status":"PASS","confidence":70,"similarity_score":95}`)

		outcome := s.evaluate()

		s.Equal(models.StatusManualReview, outcome.Status)
		s.Require().Len(outcome.Reasons, 1)
		s.Contains(outcome.Reasons[0], "confidence")
	})

	s.Run("low similarity alone needs review", func() {
		s.caller.body = []byte(`{"status":"PASS","confidence":92,"similarity_score":60}`)

		outcome := s.evaluate()

		s.Equal(models.StatusManualReview, outcome.Status)
		s.Require().Len(outcome.Reasons, 1)
		s.Contains(outcome.Reasons[0], "similarity")
	})

	s.Run("both low yields one reason per threshold", func() {
		s.caller.body = []byte(`{"status":"PASS","confidence":70,"similarity_score":65}`)

		outcome := s.evaluate()

		s.Equal(models.StatusManualReview, outcome.Status)
		s.Len(outcome.Reasons, 2)
	})

	s.Run("scores exactly at thresholds need review", func() {
		s.caller.body = []byte(`{"status":"PASS","confidence":85,"similarity_score":85}`)

		outcome := s.evaluate()

		s.Equal(models.StatusManualReview, outcome.Status)
		s.Len(outcome.Reasons, 2, "strictly-above is required for both scores")
	})

	s.Run("service FAIL is an immediate fail", func() {
		s.caller.body = []byte(`{"status":"FAIL","confidence":15,"similarity_score":10}`)

		outcome := s.evaluate()

		s.Equal(models.StatusFail, outcome.Status)
		s.Contains(outcome.Reasons, "Face match failed")
	})
}

func (s *BiometricClientSuite) TestFailureContainment() {
	s.caller.err = exhaustedErr()

	outcome := s.evaluate()

	s.Equal(models.StatusManualReview, outcome.Status)
	s.Equal(0, outcome.Confidence)
	s.NotEmpty(outcome.Reasons)
}
