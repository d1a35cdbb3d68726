package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"transaction-query/internal/errors"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// HealthStatus is the body of a healthy /health response
type HealthStatus struct {
	Status   string `json:"status"`
	Source   string `json:"source"`
	Database string `json:"database,omitempty"`
	Time     string `json:"time"`
}

// HealthCheckHandler reports liveness and, for the database source, connectivity
type HealthCheckHandler struct {
	source string
	ping   func(ctx context.Context) error
	now    func() time.Time
}

// NewHealthCheckHandler creates a new health check handler.
// db is nil when the transaction source is not database backed.
func NewHealthCheckHandler(db *gorm.DB, source string) *HealthCheckHandler {
	h := &HealthCheckHandler{source: source, now: time.Now}
	if db != nil {
		h.ping = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return h
}

// HealthCheck adds the health check endpoint
// @Summary Health check
// @Description Check API status and, for the database source, database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus "Service is healthy"
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - Service unavailable (database connection failed)"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	status := HealthStatus{
		Status: "healthy",
		Source: h.source,
		Time:   h.now().UTC().Format(time.RFC3339),
	}

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()

		if err := h.ping(ctx); err != nil {
			slog.WarnContext(ctx, "health check database ping failed",
				"trace_id", getTraceID(c),
				"error", err,
			)
			return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("Database connection failed"))
		}
		status.Database = "up"
	}

	return c.JSON(http.StatusOK, status)
}
