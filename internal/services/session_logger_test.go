package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"transaction-query/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type traceKey struct{}

type SessionLoggerTestSuite struct {
	suite.Suite
	buf    *bytes.Buffer
	logger SessionLoggerInterface
	ctx    context.Context
}

func TestSessionLoggerSuite(t *testing.T) {
	suite.Run(t, new(SessionLoggerTestSuite))
}

func (s *SessionLoggerTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
	s.logger = NewSessionLogger(slog.New(slog.NewJSONHandler(s.buf, nil)), func(ctx context.Context) string {
		id, _ := ctx.Value(traceKey{}).(string)
		return id
	})
	s.ctx = context.WithValue(context.Background(), traceKey{}, "trace-123")
}

func (s *SessionLoggerTestSuite) lastEntry() map[string]interface{} {
	lines := strings.Split(strings.TrimSpace(s.buf.String()), "\n")
	var entry map[string]interface{}
	s.Require().NoError(json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func (s *SessionLoggerTestSuite) TestLogSessionCreated() {
	s.logger.LogSessionCreated(s.ctx, "session-1")

	entry := s.lastEntry()
	s.Equal("session_created", entry["event_type"])
	s.Equal("session-1", entry["session_id"])
	s.Equal("trace-123", entry["trace_id"])
	s.Equal("INFO", entry["level"])
}

func (s *SessionLoggerTestSuite) TestLogQuerySubmitted_MasksSearchTerm() {
	minCredit := decimal.NewFromInt(100)
	s.logger.LogQuerySubmitted(s.ctx, "session-1", models.FilterRequest{
		MinCredit:  &minCredit,
		SearchTerm: "John Smith rent",
	})

	entry := s.lastEntry()
	s.Equal(RedactedValue, entry["search_term"])
	s.Equal(true, entry["has_min_credit"])
	s.Equal(false, entry["has_start_date"])
	s.NotContains(s.buf.String(), "John Smith")
}

func (s *SessionLoggerTestSuite) TestLogQuerySubmitted_EmptySearchTerm() {
	s.logger.LogQuerySubmitted(s.ctx, "session-1", models.FilterRequest{})

	s.Equal("", s.lastEntry()["search_term"])
}

func (s *SessionLoggerTestSuite) TestLogQueryFailed_IsWarning() {
	s.logger.LogQueryFailed(s.ctx, "session-1", "source unavailable", 42)

	entry := s.lastEntry()
	s.Equal("WARN", entry["level"])
	s.Equal("source unavailable", entry["error"])
	s.EqualValues(42, entry["duration_ms"])
}

func (s *SessionLoggerTestSuite) TestLogQueryCompletedSortAndExport() {
	s.logger.LogQueryCompleted(s.ctx, "session-1", 5, 10)
	s.EqualValues(5, s.lastEntry()["result_count"])

	s.logger.LogSortChanged(s.ctx, "session-1", models.SortSpec{Field: models.SortFieldCredit, Direction: models.SortDescending})
	s.Equal("credit:desc", s.lastEntry()["sort"])

	s.logger.LogExportGenerated(s.ctx, "session-1", ExportFormatXLSX, 5)
	entry := s.lastEntry()
	s.Equal("xlsx", entry["format"])
	s.EqualValues(5, entry["record_count"])

	s.logger.LogSessionDeleted(s.ctx, "session-1")
	s.Equal("session_deleted", s.lastEntry()["event_type"])
}

func (s *SessionLoggerTestSuite) TestNilTraceFunc() {
	logger := NewSessionLogger(slog.New(slog.NewJSONHandler(s.buf, nil)), nil)

	logger.LogSessionCreated(context.Background(), "session-2")

	s.Equal("", s.lastEntry()["trace_id"])
}
