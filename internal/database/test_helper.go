package database

import (
	"context"
	"testing"

	"transaction-query/internal/config"
	"transaction-query/internal/models"
)

// SetupTestDB opens an in-memory sqlite store with the transactions schema and
// filter indexes in place. It is closed when the test ends.
func SetupTestDB(t testing.TB) *DB {
	t.Helper()

	db, err := New(context.Background(), &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   ":memory:",
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := db.CreateIndexes(context.Background()); err != nil {
		t.Fatalf("failed to index test database: %v", err)
	}

	return db
}

// CreateTestTransaction inserts one record and returns it
func CreateTestTransaction(t testing.TB, db *DB, record models.TransactionRecord) *models.TransactionRecord {
	t.Helper()

	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("failed to create test transaction %s: %v", record.TransactionID, err)
	}
	return &record
}

// CleanupTestDB removes every stored transaction
func CleanupTestDB(t testing.TB, db *DB) {
	t.Helper()

	if err := db.Where("1 = 1").Delete(&models.TransactionRecord{}).Error; err != nil {
		t.Fatalf("failed to clear transactions: %v", err)
	}
}
