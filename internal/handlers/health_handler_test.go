package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "transaction-query/internal/errors"

	"github.com/stretchr/testify/suite"
)

type HealthHandlerTestSuite struct {
	suite.Suite
	fixedNow time.Time
}

func TestHealthHandlerSuite(t *testing.T) {
	suite.Run(t, new(HealthHandlerTestSuite))
}

func (s *HealthHandlerTestSuite) SetupTest() {
	s.fixedNow = time.Date(2024, 6, 3, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
}

func (s *HealthHandlerTestSuite) call(h *HealthCheckHandler) *httptest.ResponseRecorder {
	h.now = func() time.Time { return s.fixedNow }

	rec := httptest.NewRecorder()
	c := newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	c.Set(traceIDKey, "health-trace")
	s.Require().NoError(h.HealthCheck(c))
	return rec
}

func (s *HealthHandlerTestSuite) TestFixtureSourceSkipsDatabase() {
	rec := s.call(NewHealthCheckHandler(nil, "fixture"))

	s.Equal(http.StatusOK, rec.Code)

	var status HealthStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &status))
	s.Equal(HealthStatus{Status: "healthy", Source: "fixture", Time: "2024-06-03T07:30:00Z"}, status)
	s.NotContains(rec.Body.String(), "database")
}

func (s *HealthHandlerTestSuite) TestDatabaseUp() {
	h := NewHealthCheckHandler(nil, "database")
	var deadlineSet bool
	h.ping = func(ctx context.Context) error {
		_, deadlineSet = ctx.Deadline()
		return nil
	}

	rec := s.call(h)

	s.Equal(http.StatusOK, rec.Code)
	s.True(deadlineSet)

	var status HealthStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &status))
	s.Equal("up", status.Database)
	s.Equal("database", status.Source)
}

func (s *HealthHandlerTestSuite) TestDatabaseDown() {
	h := NewHealthCheckHandler(nil, "database")
	h.ping = func(context.Context) error { return errors.New("connection refused") }

	rec := s.call(h)

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("1", rec.Header().Get("Retry-After"))

	var response apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("SYSTEM_003", response.Error.Code)
	s.Equal("health-trace", response.Error.TraceID)
	s.Equal([]string{"Database connection failed"}, response.Error.Details)
	s.NotContains(rec.Body.String(), "connection refused")
}
