package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"veriflow/internal/verification/models"
)

// fakeRunner records the last run request and returns a canned decision.
type fakeRunner struct {
	decision models.Decision
	err      error

	lastSubject models.Subject
	lastKinds   []models.CheckKind
	calls       int
}

func (r *fakeRunner) Run(_ context.Context, subject models.Subject, kinds []models.CheckKind) (models.Decision, error) {
	r.calls++
	r.lastSubject = subject
	r.lastKinds = kinds
	if r.err != nil {
		return models.Decision{}, r.err
	}
	return r.decision, nil
}

// HandlerSuite tests request validation and response shaping for the
// verification endpoint.
type HandlerSuite struct {
	suite.Suite
	runner  *fakeRunner
	handler *Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.runner = &fakeRunner{
		decision: models.Decision{
			Verdict: models.VerdictApproved,
			Outcomes: []models.Outcome{
				models.NewOutcome(models.CheckDocument, models.StatusPass, 95, nil, time.Now()),
			},
			CorrelationID: "corr-1",
			DecidedAt:     time.Now(),
		},
	}
	s.handler = New(s.runner)
}

func (s *HandlerSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.Create(rec, req)
	return rec
}

func (s *HandlerSuite) TestCreate() {
	s.Run("valid submission returns the decision", func() {
		rec := s.post(`{"customer_id":"CUST-001","full_name":"Ada Okafor"}`)

		s.Equal(http.StatusOK, rec.Code)

		var resp map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("approved", resp["verdict"])
		s.Equal("corr-1", resp["correlation_id"])
		s.Len(resp["outcomes"], 1)
	})

	s.Run("empty checks list runs all four kinds", func() {
		s.post(`{"customer_id":"CUST-001","full_name":"Ada Okafor"}`)
		s.Equal(models.AllChecks, s.runner.lastKinds)
	})

	s.Run("explicit checks run in the requested order", func() {
		s.post(`{"customer_id":"CUST-001","full_name":"Ada Okafor","checks":["sanctions","document"]}`)
		s.Equal([]models.CheckKind{models.CheckSanctions, models.CheckDocument}, s.runner.lastKinds)
	})

	s.Run("subject fields reach the runner", func() {
		s.post(`{"customer_id":"CUST-002","full_name":"Ada Okafor","document_number":"A12345678","address":"12 Marina Road"}`)
		s.Equal("CUST-002", s.runner.lastSubject.CustomerID)
		s.Equal("A12345678", s.runner.lastSubject.DocumentNumber)
		s.Equal("12 Marina Road", s.runner.lastSubject.Address)
	})
}

func (s *HandlerSuite) TestValidation() {
	s.Run("malformed json is a 400", func() {
		rec := s.post(`{`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(0, s.runner.calls)
	})

	s.Run("missing customer_id is a 400", func() {
		rec := s.post(`{"full_name":"Ada Okafor"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "customer_id")
	})

	s.Run("missing full_name is a 400", func() {
		rec := s.post(`{"customer_id":"CUST-001"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "full_name")
	})

	s.Run("unknown check kind is a 400", func() {
		rec := s.post(`{"customer_id":"CUST-001","full_name":"Ada Okafor","checks":["credit_score"]}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "credit_score")
		s.Equal(0, s.runner.calls, "invalid checks must fail before the run starts")
	})

	s.Run("duplicate check kind is a 400", func() {
		rec := s.post(`{"customer_id":"CUST-001","full_name":"Ada Okafor","checks":["document","document"]}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "duplicate")
	})
}

func (s *HandlerSuite) TestRunnerErrorsMapToStatus() {
	s.runner.err = context.DeadlineExceeded

	rec := s.post(`{"customer_id":"CUST-001","full_name":"Ada Okafor"}`)

	// Unrecognized errors must not leak internals.
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "internal")
}
