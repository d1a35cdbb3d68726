package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transaction-query/internal/config"
	"transaction-query/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// transactionIndexes back the pushed-down date and credit filters
var transactionIndexes = []struct {
	name string
	ddl  string
}{
	{"idx_transactions_occurred_at", "CREATE INDEX IF NOT EXISTS idx_transactions_occurred_at ON transactions(occurred_at)"},
	{"idx_transactions_credit", "CREATE INDEX IF NOT EXISTS idx_transactions_credit ON transactions(credit)"},
}

// DB is the transaction store connection
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

// New opens the configured driver, applies the pool settings and pings once
func New(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	maxOpen := cfg.MaxConnections
	if cfg.Driver == config.DriverSQLite {
		// each :memory: connection is its own database
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, config: cfg}, nil
}

func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}

// AutoMigrate creates or updates the transactions table from the model
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(&models.TransactionRecord{})
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateIndexes creates the filter indexes that are missing. Every index is
// attempted; the failures are returned joined.
func (db *DB) CreateIndexes(ctx context.Context) error {
	var errs []error
	for _, idx := range transactionIndexes {
		if err := db.WithContext(ctx).Exec(idx.ddl).Error; err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", idx.name, err))
		}
	}
	return errors.Join(errs...)
}

// Initialize opens the database and brings the schema up to date.
// Postgres runs the SQL migrations when AUTO_MIGRATE is set; sqlite and any
// failed migration run fall back to GORM AutoMigrate.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := New(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.migrate(ctx, cfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.CreateIndexes(ctx); err != nil {
		slog.WarnContext(ctx, "some transaction indexes could not be created", "error", err)
	}

	slog.InfoContext(ctx, "database initialized", "driver", cfg.Database.Driver)
	return db, nil
}

func (db *DB) migrate(ctx context.Context, cfg *config.Config) error {
	if cfg.Database.Driver == config.DriverPostgres && cfg.Database.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}

		err = RunMigrations(ctx, sqlDB, &cfg.Database)
		if err == nil {
			return nil
		}
		slog.WarnContext(ctx, "migration runner failed, falling back to AutoMigrate", "error", err)
	}

	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
