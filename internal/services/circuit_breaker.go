package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"transaction-query/internal/models"
	"transaction-query/internal/repositories"
)

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreakerState is the position of a circuit breaker; the value is what the state gauge reports
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig tunes when a source is cut off and when it is trusted again.
// RecoverySuccesses is how many half-open fetches must succeed before the breaker closes.
type CircuitBreakerConfig struct {
	MaxFailures       int
	ResetTimeout      time.Duration
	RecoverySuccesses int
}

// CircuitBreaker tracks consecutive failures of one named source. Every state change
// updates the circuit_breaker.state gauge and is logged; rejected calls are counted.
type CircuitBreaker struct {
	source  string
	cfg     CircuitBreakerConfig
	metrics MetricsRecorderInterface
	logger  *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	state     CircuitBreakerState
	failures  int
	successes int
	openedAt  time.Time
}

func NewCircuitBreaker(source string, cfg CircuitBreakerConfig, metrics MetricsRecorderInterface) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.RecoverySuccesses <= 0 {
		cfg.RecoverySuccesses = 1
	}

	return &CircuitBreaker{
		source:  source,
		cfg:     cfg,
		metrics: metrics,
		logger:  slog.Default(),
		now:     time.Now,
		state:   StateClosed,
	}
}

// Allow returns ErrCircuitBreakerOpen while the breaker is open. Once the reset timeout
// has passed the breaker goes half-open and lets calls through again.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	if cb.now().Sub(cb.openedAt) >= cb.cfg.ResetTimeout {
		cb.moveTo(StateHalfOpen, nil)
		return nil
	}

	cb.metrics.IncrementCounter("circuit_breaker.rejected", cb.tags())
	return ErrCircuitBreakerOpen
}

// Report feeds the outcome of an allowed call back into the breaker
func (cb *CircuitBreaker) Report(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		if cb.state == StateHalfOpen {
			cb.successes++
			if cb.successes >= cb.cfg.RecoverySuccesses {
				cb.moveTo(StateClosed, nil)
			}
		}
		return
	}

	cb.failures++
	switch {
	case cb.state == StateHalfOpen:
		cb.moveTo(StateOpen, err)
	case cb.state == StateClosed && cb.failures >= cb.cfg.MaxFailures:
		cb.moveTo(StateOpen, err)
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// moveTo must be called with mu held
func (cb *CircuitBreaker) moveTo(next CircuitBreakerState, cause error) {
	previous := cb.state
	cb.state = next
	cb.successes = 0

	switch next {
	case StateOpen:
		cb.openedAt = cb.now()
	case StateClosed:
		cb.failures = 0
	}

	cb.metrics.RecordGauge("circuit_breaker.state", float64(next), cb.tags())

	attrs := []any{
		slog.String("source", cb.source),
		slog.String("from", previous.String()),
		slog.String("to", next.String()),
	}
	if cause != nil {
		attrs = append(attrs, slog.Int("failures", cb.failures), slog.String("error", cause.Error()))
		cb.logger.Warn("circuit breaker opened", attrs...)
		return
	}
	cb.logger.Info("circuit breaker state changed", attrs...)
}

func (cb *CircuitBreaker) tags() map[string]string {
	return map[string]string{"service": cb.source}
}

// breakerSource fails fast while the wrapped source keeps failing
type breakerSource struct {
	source  repositories.TransactionSourceInterface
	breaker CircuitBreakerInterface
}

// NewBreakerSource wraps a candidate source with a circuit breaker.
// Failures caused by the caller's own cancellation do not count against the source.
func NewBreakerSource(source repositories.TransactionSourceInterface, breaker CircuitBreakerInterface) repositories.TransactionSourceInterface {
	return &breakerSource{source: source, breaker: breaker}
}

func (b *breakerSource) Name() string {
	return b.source.Name()
}

func (b *breakerSource) FetchCandidates(ctx context.Context, filters models.FilterRequest) ([]models.RawTransaction, error) {
	if err := b.breaker.Allow(); err != nil {
		return nil, fmt.Errorf("%s source: %w", b.source.Name(), err)
	}

	records, err := b.source.FetchCandidates(ctx, filters)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}

	b.breaker.Report(err)
	if err != nil {
		return nil, err
	}
	return records, nil
}
