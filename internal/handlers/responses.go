package handlers

import (
	"log/slog"

	"transaction-query/internal/errors"

	"github.com/labstack/echo/v4"
)

// Handlers report failures only through SendError and SendSystemError.

// traceIDKey mirrors the key the RequestID middleware stores the trace ID under
const traceIDKey = "trace_id"

// retryAfterSeconds is advertised on retryable failures
const retryAfterSeconds = "1"

func getTraceID(c echo.Context) string {
	traceID, _ := c.Get(traceIDKey).(string)
	return traceID
}

// SendError writes the error envelope for code with the status the code maps to.
// Retryable codes also set Retry-After.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	if errorResponse.Retryable() {
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
	}
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs err against the trace ID and writes the generic SYSTEM_001 envelope
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	slog.ErrorContext(c.Request().Context(), "internal error",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"error", err,
	)

	errorResponse := errors.NewSystemError(traceID)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}
