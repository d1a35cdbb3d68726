package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound     = errors.New("query session not found")
	ErrInvalidSessionID    = errors.New("invalid query session ID")
	ErrSessionLimitReached = errors.New("query session limit reached")
)

const (
	DefaultMaxSessions        = 1000
	DefaultSessionIdleTimeout = 30 * time.Minute

	maxSessionSweepPeriod = time.Minute
)

// SessionStoreConfig bounds the number and lifetime of open sessions.
// Zero values select the defaults.
type SessionStoreConfig struct {
	MaxSessions int
	IdleTimeout time.Duration
}

type storedSession struct {
	session  *QuerySession
	lastUsed time.Time
}

type sessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*storedSession
	maxSessions int
	idleTimeout time.Duration
	now         func() time.Time

	query   QueryServiceInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewSessionStore creates an in-memory store of query sessions sharing one query service
func NewSessionStore(query QueryServiceInterface, metrics MetricsRecorderInterface, cfg SessionStoreConfig) SessionStoreInterface {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultSessionIdleTimeout
	}

	return &sessionStore{
		sessions:    make(map[string]*storedSession),
		maxSessions: cfg.MaxSessions,
		idleTimeout: cfg.IdleTimeout,
		now:         time.Now,
		query:       query,
		metrics:     metrics,
		logger:      slog.Default(),
	}
}

// Create opens a session. When the store is full, idle sessions are swept first and
// ErrSessionLimitReached is returned if that frees nothing.
func (s *sessionStore) Create() (*QuerySession, error) {
	session := NewQuerySession(uuid.New().String(), s.query, s.metrics)

	s.mu.Lock()
	swept := 0
	if len(s.sessions) >= s.maxSessions {
		swept = s.sweepLocked()
	}
	if len(s.sessions) >= s.maxSessions {
		count := len(s.sessions)
		s.mu.Unlock()

		if swept > 0 {
			s.metrics.RecordGauge("sessions.active", float64(count), nil)
		}
		s.logger.Warn("query session limit reached", slog.Int("active_sessions", count))
		return nil, ErrSessionLimitReached
	}
	s.sessions[session.ID()] = &storedSession{session: session, lastUsed: s.now()}
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.RecordGauge("sessions.active", float64(count), nil)
	s.logger.Info("query session created", slog.String("session_id", session.ID()))

	return session, nil
}

// Get returns the session and marks it as used
func (s *sessionStore) Get(id string) (*QuerySession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	stored.lastUsed = s.now()
	return stored.session, nil
}

func (s *sessionStore) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.RecordGauge("sessions.active", float64(count), nil)
	s.logger.Info("query session deleted", slog.String("session_id", id))

	return nil
}

func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes sessions unused for longer than the idle timeout and returns how many it closed.
// A session with a query in flight is kept.
func (s *sessionStore) Sweep() int {
	s.mu.Lock()
	removed := s.sweepLocked()
	count := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.metrics.RecordGauge("sessions.active", float64(count), nil)
		s.logger.Info("idle query sessions closed",
			slog.Int("closed", removed),
			slog.Int("active_sessions", count),
		)
	}
	return removed
}

func (s *sessionStore) sweepLocked() int {
	cutoff := s.now().Add(-s.idleTimeout)
	removed := 0
	for id, stored := range s.sessions {
		if stored.lastUsed.After(cutoff) || stored.session.Status() == SessionLoading {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// Cleanup sweeps idle sessions periodically until ctx is cancelled
func (s *sessionStore) Cleanup(ctx context.Context) {
	period := s.idleTimeout / 2
	if period > maxSessionSweepPeriod {
		period = maxSessionSweepPeriod
	}
	if period <= 0 {
		period = time.Millisecond
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
