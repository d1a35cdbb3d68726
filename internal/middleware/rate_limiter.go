package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"transaction-query/internal/config"
	"transaction-query/internal/errors"
	"transaction-query/internal/handlers"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

const (
	visitorIdleTimeout = 3 * time.Minute
	visitorSweepPeriod = time.Minute
)

var rateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "api_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	},
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore tracks one token bucket per client IP
type visitorStore struct {
	mu                sync.Mutex
	visitors          map[string]*visitor
	requestsPerSecond int
	burstSize         int
}

func newVisitorStore(rps, burst int) *visitorStore {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &visitorStore{
		visitors:          make(map[string]*visitor),
		requestsPerSecond: rps,
		burstSize:         burst,
	}
}

func (s *visitorStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(s.requestsPerSecond), s.burstSize)
		s.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// sweep drops visitors idle for longer than maxIdle and returns how many remain
func (s *visitorStore) sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ip, v := range s.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(s.visitors, ip)
		}
	}
	return len(s.visitors)
}

func (s *visitorStore) cleanup(ctx context.Context) {
	ticker := time.NewTicker(visitorSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(visitorIdleTimeout)
		}
	}
}

// RateLimiter limits requests per client IP with a token bucket sized from cfg.
// Health and metrics endpoints are never limited. The idle-visitor sweep stops when
// ctx is cancelled.
func RateLimiter(ctx context.Context, cfg config.SecurityConfig) echo.MiddlewareFunc {
	store := newVisitorStore(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go store.cleanup(ctx)

	return rateLimit(store)
}

var unlimitedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

func rateLimit(store *visitorStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if unlimitedPaths[c.Path()] {
				return next(c)
			}

			if !store.get(clientIP(c)).Allow() {
				rateLimitedTotal.Inc()
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}

			return next(c)
		}
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer address
func clientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(c.Request().Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return c.RealIP()
}
