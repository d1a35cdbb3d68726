package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"transaction-query/internal/config"
	"transaction-query/internal/repositories"
	"transaction-query/internal/services"

	"gorm.io/gorm"
)

// NewTransactionSource selects the candidate source named by the configuration.
// The remote source is guarded by a circuit breaker; db is required for the database source.
func NewTransactionSource(
	cfg *config.Config,
	db *gorm.DB,
	metrics services.MetricsRecorderInterface,
	logger *slog.Logger,
) (repositories.TransactionSourceInterface, error) {
	switch cfg.Source.Kind {
	case config.SourceFixture:
		return repositories.NewFixtureSource(cfg.Source.FixtureDelay), nil

	case config.SourceRemote:
		remote := repositories.NewRemoteSource(
			cfg.Source.RemoteBaseURL,
			&http.Client{Timeout: cfg.Source.RemoteTimeout},
			logger,
		)
		breaker := services.NewCircuitBreaker(remote.Name(), services.CircuitBreakerConfig{
			MaxFailures:  cfg.Source.BreakerMaxFailures,
			ResetTimeout: cfg.Source.BreakerResetTimeout,
		}, metrics)
		return services.NewBreakerSource(remote, breaker), nil

	case config.SourceDatabase:
		if db == nil {
			return nil, fmt.Errorf("database source requires a database connection")
		}
		return repositories.NewTransactionRepository(db), nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Source.Kind)
	}
}
