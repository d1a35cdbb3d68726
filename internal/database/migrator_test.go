package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"transaction-query/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
)

type MigrationRunnerTestSuite struct {
	suite.Suite
	mock     sqlmock.Sqlmock
	runner   *MigrationRunner
	seedsDir string
	cfg      *config.DatabaseConfig
}

func TestMigrationRunnerSuite(t *testing.T) {
	suite.Run(t, new(MigrationRunnerTestSuite))
}

func (s *MigrationRunnerTestSuite) SetupTest() {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	s.mock = mock
	s.seedsDir = s.T().TempDir()
	s.cfg = &config.DatabaseConfig{
		MigrationsPath: filepath.Join(s.T().TempDir(), "missing"),
		SeedsPath:      s.seedsDir,
		SeedDatabase:   true,
	}
	s.runner = NewMigrationRunner(db, s.cfg)
	s.runner.retry = retryPolicy{attempts: 3, interval: 10 * time.Millisecond}
}

func (s *MigrationRunnerTestSuite) writeSeed(name, content string) {
	s.Require().NoError(os.WriteFile(filepath.Join(s.seedsDir, name), []byte(content), 0o644))
}

func (s *MigrationRunnerTestSuite) TestDefaults() {
	runner := NewMigrationRunner(nil, nil)

	s.Equal(defaultMigrationsPath, runner.migrationsPath)
	s.Equal(defaultSeedsPath, runner.seedsPath)
	s.False(runner.seedEnabled)
	s.Equal(defaultRetryPolicy, runner.retry)
	s.Equal(time.Minute, defaultRetryPolicy.budget())
}

func (s *MigrationRunnerTestSuite) TestPathsFromConfig() {
	s.Equal(s.cfg.MigrationsPath, s.runner.migrationsPath)
	s.Equal(s.seedsDir, s.runner.seedsPath)
	s.True(s.runner.seedEnabled)
}

func (s *MigrationRunnerTestSuite) TestWaitForDatabase_ReadyAfterRetries() {
	s.mock.ExpectPing().WillReturnError(errors.New("the database system is starting up"))
	s.mock.ExpectPing().WillReturnError(errors.New("the database system is starting up"))
	s.mock.ExpectPing()

	start := time.Now()
	s.NoError(s.runner.WaitForDatabase(context.Background()))

	s.GreaterOrEqual(time.Since(start), 2*s.runner.retry.interval)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrationRunnerTestSuite) TestWaitForDatabase_GivesUp() {
	refused := errors.New("connection refused")
	for i := 0; i < s.runner.retry.attempts; i++ {
		s.mock.ExpectPing().WillReturnError(refused)
	}

	err := s.runner.WaitForDatabase(context.Background())

	s.ErrorIs(err, refused)
	s.Contains(err.Error(), "not ready after 3 attempts")
}

func (s *MigrationRunnerTestSuite) TestWaitForDatabase_StopsWithContext() {
	s.runner.retry = retryPolicy{attempts: 100, interval: time.Second}
	s.mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s.ErrorIs(s.runner.WaitForDatabase(ctx), context.DeadlineExceeded)
}

func (s *MigrationRunnerTestSuite) TestApplyMigrations_MissingDirectoryIsSkipped() {
	s.NoError(s.runner.ApplyMigrations(context.Background()))
}

func (s *MigrationRunnerTestSuite) TestStatus_MissingDirectory() {
	_, _, err := s.runner.Status()

	s.ErrorIs(err, ErrMigrationsNotFound)
}

func (s *MigrationRunnerTestSuite) TestLoadSeeds_Disabled() {
	s.runner.seedEnabled = false
	s.writeSeed("001_fixture_transactions.sql", "INSERT INTO transactions VALUES ('T001');")

	s.NoError(s.runner.LoadSeeds(context.Background()))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrationRunnerTestSuite) TestLoadSeeds_MissingDirectory() {
	s.runner.seedsPath = filepath.Join(s.seedsDir, "nope")

	s.NoError(s.runner.LoadSeeds(context.Background()))
}

func (s *MigrationRunnerTestSuite) TestLoadSeeds_EmptyDirectory() {
	s.NoError(s.runner.LoadSeeds(context.Background()))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrationRunnerTestSuite) TestLoadSeeds_EachFileInItsOwnTransaction() {
	s.writeSeed("002_more.sql", "INSERT INTO transactions (transaction_id) VALUES ('T011');")
	s.writeSeed("001_fixture.sql", "INSERT INTO transactions (transaction_id) VALUES ('T001');")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`VALUES \('T001'\)`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`VALUES \('T011'\)`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.runner.LoadSeeds(context.Background()))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrationRunnerTestSuite) TestLoadSeeds_FailedFileIsRolledBackAndSkipped() {
	s.writeSeed("001_bad.sql", "INSERT INTO ledger VALUES (1);")
	s.writeSeed("002_good.sql", "INSERT INTO transactions (transaction_id) VALUES ('T002');")

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO ledger").WillReturnError(errors.New(`relation "ledger" does not exist`))
	s.mock.ExpectRollback()
	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.runner.LoadSeeds(context.Background()))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrationRunnerTestSuite) TestLoadSeeds_UnreadableFileStops() {
	s.Require().NoError(os.Mkdir(filepath.Join(s.seedsDir, "001_invalid.sql"), 0o755))

	err := s.runner.LoadSeeds(context.Background())

	s.Error(err)
	s.Contains(err.Error(), "failed to read seed file 001_invalid.sql")
}

func (s *MigrationRunnerTestSuite) TestFixtureSeedFile() {
	s.runner.seedsPath = filepath.Join("..", "..", defaultSeedsPath)

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 10))
	s.mock.ExpectCommit()

	s.NoError(s.runner.LoadSeeds(context.Background()))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrationRunnerTestSuite) TestRunMigrations_DatabaseNeverReady() {
	for i := 0; i < s.runner.retry.attempts; i++ {
		s.mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	err := s.runner.run(context.Background())

	s.Error(err)
	s.Contains(err.Error(), "database readiness check failed")
}

func (s *MigrationRunnerTestSuite) TestRunMigrations_NoMigrationsStillSeeds() {
	s.writeSeed("001_fixture.sql", "INSERT INTO transactions (transaction_id) VALUES ('T001');")

	s.mock.ExpectPing()
	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.runner.run(context.Background()))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrationRunnerTestSuite) TestMigrationFilesArePaired() {
	ups, err := filepath.Glob(filepath.Join("..", "..", defaultMigrationsPath, "*.up.sql"))
	s.Require().NoError(err)
	s.Require().NotEmpty(ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := os.Stat(down)
		s.NoError(err, "missing down migration for %s", filepath.Base(up))
	}
}
