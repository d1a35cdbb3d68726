package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transaction-query/internal/models"
	"transaction-query/internal/repositories"
)

var (
	ErrFetchFailed     = errors.New("failed to fetch transactions")
	ErrMalformedRecord = errors.New("source returned a malformed transaction record")
)

// QueryErrorKind classifies query failures
type QueryErrorKind int

const (
	QueryErrorFetchFailed QueryErrorKind = iota + 1
	QueryErrorMalformedRecord
)

func (k QueryErrorKind) String() string {
	switch k {
	case QueryErrorFetchFailed:
		return "fetch_failed"
	case QueryErrorMalformedRecord:
		return "malformed_record"
	default:
		return "unknown"
	}
}

// QueryError is the typed failure of QueryService.Execute.
// errors.Is matches ErrFetchFailed or ErrMalformedRecord by kind, and the cause stays reachable.
type QueryError struct {
	Kind  QueryErrorKind
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

func (e *QueryError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *QueryError) sentinel() error {
	if e.Kind == QueryErrorMalformedRecord {
		return ErrMalformedRecord
	}
	return ErrFetchFailed
}

// QueryServiceConfig tunes record normalization
type QueryServiceConfig struct {
	// StrictRecords fails the whole query on the first malformed record instead of skipping it
	StrictRecords bool
	// Location interprets source date-times that carry no zone; nil means UTC
	Location *time.Location
}

type queryService struct {
	source   repositories.TransactionSourceInterface
	metrics  MetricsRecorderInterface
	logger   *slog.Logger
	strict   bool
	location *time.Location
}

// NewQueryService creates the query executor over a candidate source
func NewQueryService(
	source repositories.TransactionSourceInterface,
	metrics MetricsRecorderInterface,
	config QueryServiceConfig,
) QueryServiceInterface {
	location := config.Location
	if location == nil {
		location = time.UTC
	}

	return &queryService{
		source:   source,
		metrics:  metrics,
		logger:   slog.Default(),
		strict:   config.StrictRecords,
		location: location,
	}
}

func (s *queryService) SourceName() string {
	return s.source.Name()
}

// Execute applies every present bound to the normalized candidate set, keeping source order
func (s *queryService) Execute(ctx context.Context, filters models.FilterRequest) ([]models.TransactionRecord, error) {
	start := time.Now()
	sourceName := s.source.Name()

	candidates, err := s.source.FetchCandidates(ctx, filters)
	if err != nil {
		s.logger.Error("transaction fetch failed",
			slog.String("source", sourceName),
			slog.String("error", err.Error()),
		)
		s.metrics.IncrementCounter("query.failed", map[string]string{"source": sourceName, "reason": "fetch"})
		return nil, &QueryError{Kind: QueryErrorFetchFailed, Cause: err}
	}

	results := make([]models.TransactionRecord, 0, len(candidates))
	for i, raw := range candidates {
		record, err := raw.Normalize(s.location)
		if err != nil {
			if s.strict {
				s.logger.Error("malformed transaction record",
					slog.String("source", sourceName),
					slog.Int("index", i),
					slog.String("error", err.Error()),
				)
				s.metrics.IncrementCounter("query.failed", map[string]string{"source": sourceName, "reason": "malformed"})
				return nil, &QueryError{
					Kind:  QueryErrorMalformedRecord,
					Cause: fmt.Errorf("record %d (%q): %w", i, raw.TransactionID, err),
				}
			}

			s.logger.Warn("skipping malformed transaction record",
				slog.String("source", sourceName),
				slog.Int("index", i),
				slog.String("transaction_id", raw.TransactionID),
				slog.String("error", err.Error()),
			)
			s.metrics.IncrementCounter("query.record_skipped", map[string]string{"source": sourceName})
			continue
		}

		if filters.Matches(record) {
			results = append(results, record)
		}
	}

	s.metrics.IncrementCounter("query.executed", map[string]string{"source": sourceName})
	s.metrics.RecordProcessingTime("query.duration", time.Since(start))
	s.metrics.RecordGauge("query.results", float64(len(results)), map[string]string{"source": sourceName})

	s.logger.Info("transaction query executed",
		slog.String("source", sourceName),
		slog.Int("candidates", len(candidates)),
		slog.Int("results", len(results)),
		slog.Duration("duration", time.Since(start)),
	)

	return results, nil
}
