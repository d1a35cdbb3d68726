package services

import (
	"context"
	"log/slog"
	"time"

	"transaction-query/internal/models"
)

// RedactedValue masks free-text search input, which may carry personal details, in logs
const RedactedValue = "***REDACTED***"

// SessionLogger provides structured logging for query session events
type SessionLogger struct {
	logger  *slog.Logger
	traceID func(context.Context) string
}

// NewSessionLogger creates a session logger. traceID extracts the request trace ID from a
// context and may be nil.
func NewSessionLogger(logger *slog.Logger, traceID func(context.Context) string) SessionLoggerInterface {
	if logger == nil {
		logger = slog.Default()
	}
	if traceID == nil {
		traceID = func(context.Context) string { return "" }
	}
	return &SessionLogger{
		logger:  logger,
		traceID: traceID,
	}
}

// LogSessionCreated logs a newly opened session
func (sl *SessionLogger) LogSessionCreated(ctx context.Context, sessionID string) {
	sl.logger.InfoContext(ctx, "query session created",
		slog.String("event_type", "session_created"),
		slog.String("session_id", sessionID),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", sl.traceID(ctx)),
	)
}

// LogQuerySubmitted logs which bounds a submission carries. The search term itself is masked.
func (sl *SessionLogger) LogQuerySubmitted(ctx context.Context, sessionID string, filters models.FilterRequest) {
	search := ""
	if filters.SearchTerm != "" {
		search = RedactedValue
	}

	sl.logger.InfoContext(ctx, "session query submitted",
		slog.String("event_type", "session_query_submitted"),
		slog.String("session_id", sessionID),
		slog.Bool("has_start_date", filters.StartDate != nil),
		slog.Bool("has_end_date", filters.EndDate != nil),
		slog.Bool("has_min_credit", filters.MinCredit != nil),
		slog.Bool("has_max_credit", filters.MaxCredit != nil),
		slog.String("search_term", search),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", sl.traceID(ctx)),
	)
}

// LogQueryCompleted logs a successful submission
func (sl *SessionLogger) LogQueryCompleted(ctx context.Context, sessionID string, resultCount int, durationMs int64) {
	sl.logger.InfoContext(ctx, "session query completed",
		slog.String("event_type", "session_query_completed"),
		slog.String("session_id", sessionID),
		slog.Int("result_count", resultCount),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", sl.traceID(ctx)),
	)
}

// LogQueryFailed logs a submission that left the previous results in place
func (sl *SessionLogger) LogQueryFailed(ctx context.Context, sessionID string, errorMsg string, durationMs int64) {
	sl.logger.WarnContext(ctx, "session query failed",
		slog.String("event_type", "session_query_failed"),
		slog.String("session_id", sessionID),
		slog.String("error", errorMsg),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", sl.traceID(ctx)),
	)
}

// LogSortChanged logs the sort spec a toggle produced
func (sl *SessionLogger) LogSortChanged(ctx context.Context, sessionID string, spec models.SortSpec) {
	sl.logger.InfoContext(ctx, "session sort changed",
		slog.String("event_type", "session_sort_changed"),
		slog.String("session_id", sessionID),
		slog.String("sort", spec.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", sl.traceID(ctx)),
	)
}

// LogExportGenerated logs a downloaded export
func (sl *SessionLogger) LogExportGenerated(ctx context.Context, sessionID string, format ExportFormat, recordCount int) {
	sl.logger.InfoContext(ctx, "session export generated",
		slog.String("event_type", "session_export_generated"),
		slog.String("session_id", sessionID),
		slog.String("format", string(format)),
		slog.Int("record_count", recordCount),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", sl.traceID(ctx)),
	)
}

// LogSessionDeleted logs a closed session
func (sl *SessionLogger) LogSessionDeleted(ctx context.Context, sessionID string) {
	sl.logger.InfoContext(ctx, "query session deleted",
		slog.String("event_type", "session_deleted"),
		slog.String("session_id", sessionID),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", sl.traceID(ctx)),
	)
}
