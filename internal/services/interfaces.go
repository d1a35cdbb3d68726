package services

import (
	"context"
	"time"

	"transaction-query/internal/models"

	"github.com/shopspring/decimal"
)

// QueryServiceInterface runs the filter stage of the query pipeline
type QueryServiceInterface interface {
	// Execute fetches candidates, normalizes them and returns the records matching every bound.
	// The returned slice is owned by the caller.
	Execute(ctx context.Context, filters models.FilterRequest) ([]models.TransactionRecord, error)

	// SourceName identifies the candidate source for logs and metrics
	SourceName() string
}

// SessionStoreInterface keeps the query sessions opened through the API
type SessionStoreInterface interface {
	Create() (*QuerySession, error)
	Get(id string) (*QuerySession, error)
	Delete(id string) error
	Len() int
	Sweep() int
	Cleanup(ctx context.Context)
}

// MetricsRecorderInterface records pipeline metrics
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// SessionLoggerInterface records structured query session events
type SessionLoggerInterface interface {
	LogSessionCreated(ctx context.Context, sessionID string)
	LogQuerySubmitted(ctx context.Context, sessionID string, filters models.FilterRequest)
	LogQueryCompleted(ctx context.Context, sessionID string, resultCount int, durationMs int64)
	LogQueryFailed(ctx context.Context, sessionID string, errorMsg string, durationMs int64)
	LogSortChanged(ctx context.Context, sessionID string, spec models.SortSpec)
	LogExportGenerated(ctx context.Context, sessionID string, format ExportFormat, recordCount int)
	LogSessionDeleted(ctx context.Context, sessionID string)
}

// TransactionGeneratorInterface produces synthetic transaction records for development databases
type TransactionGeneratorInterface interface {
	GetMerchantPool() []MerchantInfo
	SelectRandomMerchant() MerchantInfo
	GenerateAmount(category string) decimal.Decimal
	GenerateTimestamp(startDate, endDate time.Time) time.Time
	GenerateTransactions(startDate, endDate time.Time, count int) []models.TransactionRecord
}

// CircuitBreakerInterface guards a flaky dependency
type CircuitBreakerInterface interface {
	Allow() error
	Report(err error)
	State() CircuitBreakerState
}
