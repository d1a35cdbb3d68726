package repositories

import (
	"context"
	"errors"
	"fmt"

	"transaction-query/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseSourceName labels the relational source in logs and metrics
const DatabaseSourceName = "database"

const createBatchSize = 100

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNilTransaction      = errors.New("transaction cannot be nil")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

func (r *transactionRepository) Name() string {
	return DatabaseSourceName
}

// FetchCandidates pushes the date and credit bounds into SQL and returns rows in source order.
// The search term stays with the executor: SQL case folding differs between drivers
// (sqlite LOWER only folds ASCII), so filtering on it here could drop real matches.
func (r *transactionRepository) FetchCandidates(ctx context.Context, filters models.FilterRequest) ([]models.RawTransaction, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionRecord{})

	if filters.StartDate != nil {
		query = query.Where("occurred_at >= ?", filters.StartDate.UTC())
	}
	if filters.EndDate != nil {
		query = query.Where("occurred_at <= ?", filters.EndDate.UTC())
	}
	if filters.MinCredit != nil {
		query = query.Where("credit >= ?", *filters.MinCredit)
	}
	if filters.MaxCredit != nil {
		query = query.Where("credit <= ?", *filters.MaxCredit)
	}

	var records []models.TransactionRecord
	if err := query.Order("occurred_at ASC").Order("transaction_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	candidates := make([]models.RawTransaction, len(records))
	for i := range records {
		candidates[i] = records[i].Raw()
	}
	return candidates, nil
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, record *models.TransactionRecord) error {
	if record == nil {
		return ErrNilTransaction
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch inserts records, skipping IDs that already exist, and returns the number inserted
func (r *transactionRepository) CreateBatch(ctx context.Context, records []models.TransactionRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(records, createBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create transaction batch: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetByID retrieves a transaction by its identifier
func (r *transactionRepository) GetByID(ctx context.Context, transactionID string) (*models.TransactionRecord, error) {
	var record models.TransactionRecord
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &record, nil
}

// Count returns the number of stored transactions
func (r *transactionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.TransactionRecord{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return total, nil
}
