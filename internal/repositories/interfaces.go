package repositories

import (
	"context"

	"transaction-query/internal/models"
)

// TransactionSourceInterface supplies the candidate set for a query.
// The filter request is advisory: a source may push bounds down or ignore them,
// callers always re-apply every predicate to what comes back.
type TransactionSourceInterface interface {
	Name() string
	FetchCandidates(ctx context.Context, filters models.FilterRequest) ([]models.RawTransaction, error)
}

// TransactionRepositoryInterface defines the contract for the relational transaction store
type TransactionRepositoryInterface interface {
	TransactionSourceInterface
	Create(ctx context.Context, record *models.TransactionRecord) error
	CreateBatch(ctx context.Context, records []models.TransactionRecord) (int64, error)
	GetByID(ctx context.Context, transactionID string) (*models.TransactionRecord, error)
	Count(ctx context.Context) (int64, error)
}
