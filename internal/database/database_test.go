package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"transaction-query/internal/config"
	"transaction-query/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			SQLitePath:      filepath.Join(t.TempDir(), "transactions.db"),
			MaxConnections:  5,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
			AutoMigrate:     true,
		},
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.DatabaseConfig{Driver: "oracle"})

	assert.ErrorIs(t, err, config.ErrUnknownDriver)
}

func TestInitialize_SQLiteUsesAutoMigrate(t *testing.T) {
	db, err := Initialize(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.Migrator().HasTable(&models.TransactionRecord{}))
	assert.True(t, db.Migrator().HasIndex(&models.TransactionRecord{}, "idx_transactions_credit"))
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestSetupTestDB_StoresTransactions(t *testing.T) {
	db := SetupTestDB(t)

	created := CreateTestTransaction(t, db, models.TransactionRecord{
		TransactionID: "T001",
		Timestamp:     time.Date(2023, 6, 1, 10, 30, 0, 0, time.UTC),
		Credit:        decimal.NewFromInt(100),
		Detail:        "Purchase at Store A",
	})

	var stored models.TransactionRecord
	require.NoError(t, db.First(&stored, "transaction_id = ?", created.TransactionID).Error)
	assert.True(t, created.Timestamp.Equal(stored.Timestamp))
	assert.True(t, created.Credit.Equal(stored.Credit))

	CleanupTestDB(t, db)

	var total int64
	require.NoError(t, db.Model(&models.TransactionRecord{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestCreateIndexes_Idempotent(t *testing.T) {
	db := SetupTestDB(t)

	assert.NoError(t, db.CreateIndexes(context.Background()))
	assert.NoError(t, db.CreateIndexes(context.Background()))
	for _, idx := range transactionIndexes {
		assert.True(t, db.Migrator().HasIndex(&models.TransactionRecord{}, idx.name), idx.name)
	}
}

func TestInitialize_ReopensExistingFile(t *testing.T) {
	cfg := sqliteConfig(t)

	first, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	CreateTestTransaction(t, first, models.TransactionRecord{
		TransactionID: "T004",
		Timestamp:     time.Date(2023, 6, 4, 12, 0, 0, 0, time.UTC),
		Credit:        decimal.NewFromInt(300),
		Detail:        "Purchase at Store B",
	})
	require.NoError(t, first.Close())

	second, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	defer second.Close()

	var total int64
	require.NoError(t, second.Model(&models.TransactionRecord{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestNew_PingFailureIsReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ctx, &sqliteConfig(t).Database)

	assert.Error(t, err)
}
