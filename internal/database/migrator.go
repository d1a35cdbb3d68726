package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"transaction-query/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	defaultMigrationsPath = "db/migrations"
	defaultSeedsPath      = "db/seeds"
)

// ErrMigrationsNotFound is returned by Status when the migrations directory is missing
var ErrMigrationsNotFound = errors.New("migrations directory not found")

type retryPolicy struct {
	attempts int
	interval time.Duration
}

// budget is the longest WaitForDatabase can take
func (p retryPolicy) budget() time.Duration {
	return time.Duration(p.attempts) * p.interval
}

var defaultRetryPolicy = retryPolicy{attempts: 30, interval: 2 * time.Second}

// MigrationRunner applies the SQL migrations and seed files to postgres
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
	seedEnabled    bool
	retry          retryPolicy
	log            *slog.Logger
}

// NewMigrationRunner creates a new migration runner.
// Empty paths fall back to db/migrations and db/seeds relative to the working directory.
func NewMigrationRunner(db *sql.DB, cfg *config.DatabaseConfig) *MigrationRunner {
	runner := &MigrationRunner{
		db:             db,
		migrationsPath: defaultMigrationsPath,
		seedsPath:      defaultSeedsPath,
		retry:          defaultRetryPolicy,
		log:            slog.Default().With("component", "migrator"),
	}

	if cfg != nil {
		if cfg.MigrationsPath != "" {
			runner.migrationsPath = cfg.MigrationsPath
		}
		if cfg.SeedsPath != "" {
			runner.seedsPath = cfg.SeedsPath
		}
		runner.seedEnabled = cfg.SeedDatabase
	}

	return runner
}

// WaitForDatabase pings until postgres answers, the attempts run out or ctx ends
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= mr.retry.attempts; attempt++ {
		if lastErr = mr.db.PingContext(ctx); lastErr == nil {
			mr.log.InfoContext(ctx, "database is ready", "attempts", attempt)
			return nil
		}

		mr.log.InfoContext(ctx, "database not ready",
			"attempt", attempt,
			"max_attempts", mr.retry.attempts,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mr.retry.interval):
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", mr.retry.attempts, lastErr)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ApplyMigrations runs every pending up migration. A dirty schema is forced back
// to its recorded version first. A missing migrations directory is not an error.
func (mr *MigrationRunner) ApplyMigrations(ctx context.Context) error {
	if !dirExists(mr.migrationsPath) {
		mr.log.WarnContext(ctx, "migrations directory not found, skipping", "path", mr.migrationsPath)
		return nil
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	case dirty:
		mr.log.WarnContext(ctx, "schema is dirty, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version %d: %w", version, err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mr.log.InfoContext(ctx, "schema up to date", "version", version)
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	mr.log.InfoContext(ctx, "migrations applied", "from", version, "to", newVersion)
	return nil
}

// LoadSeeds runs each *.sql file in the seeds directory, in name order, inside its own
// transaction. A file that fails is rolled back and skipped; an unreadable file stops
// the run. Seeding only happens when SEED_DATABASE is set.
func (mr *MigrationRunner) LoadSeeds(ctx context.Context) error {
	if !mr.seedEnabled {
		mr.log.DebugContext(ctx, "seed loading disabled")
		return nil
	}

	if !dirExists(mr.seedsPath) {
		mr.log.WarnContext(ctx, "seeds directory not found, skipping", "path", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list seed files: %w", err)
	}

	loaded := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", filepath.Base(file), err)
		}

		if err := mr.execSeed(ctx, string(content)); err != nil {
			mr.log.WarnContext(ctx, "seed file failed, skipping", "file", filepath.Base(file), "error", err)
			continue
		}
		loaded++
	}

	mr.log.InfoContext(ctx, "seed data loaded", "files", len(files), "loaded", loaded)
	return nil
}

func (mr *MigrationRunner) execSeed(ctx context.Context, script string) error {
	tx, err := mr.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Status returns the applied migration version and whether it is dirty
func (mr *MigrationRunner) Status() (version uint, dirty bool, err error) {
	if !dirExists(mr.migrationsPath) {
		return 0, false, ErrMigrationsNotFound
	}

	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}

	return m.Version()
}

// RunMigrations waits for postgres, applies pending migrations and loads seeds.
// Seed failures are logged, not returned.
func RunMigrations(ctx context.Context, db *sql.DB, cfg *config.DatabaseConfig) error {
	return NewMigrationRunner(db, cfg).run(ctx)
}

func (mr *MigrationRunner) run(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, mr.retry.budget())
	defer cancel()

	if err := mr.WaitForDatabase(waitCtx); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := mr.ApplyMigrations(ctx); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if err := mr.LoadSeeds(ctx); err != nil {
		mr.log.WarnContext(ctx, "seed data loading failed", "error", err)
	}

	if version, dirty, err := mr.Status(); err == nil {
		mr.log.InfoContext(ctx, "migration status", "version", version, "dirty", dirty)
	}

	return nil
}
