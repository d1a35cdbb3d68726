package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// TraceIDHeader carries the trace ID on requests and responses
	TraceIDHeader = "X-Trace-ID"
	// TraceIDContextKey is the echo.Context key the trace ID is stored under
	TraceIDContextKey = "trace_id"
)

type traceIDKey struct{}

// RequestID assigns every request a trace ID. A caller-supplied X-Trace-ID, or failing
// that X-Request-ID, is reused when it parses as a UUID and is echoed back in canonical
// form; anything else is replaced with a fresh UUID.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			traceID := resolveTraceID(req.Header.Get(TraceIDHeader), req.Header.Get(echo.HeaderXRequestID))

			c.Set(TraceIDContextKey, traceID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), traceIDKey{}, traceID)))
			c.Response().Header().Set(TraceIDHeader, traceID)
			return next(c)
		}
	}
}

func resolveTraceID(candidates ...string) string {
	for _, candidate := range candidates {
		if id, err := uuid.Parse(candidate); err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}

// GetTraceID returns the trace ID set by RequestID, or "" outside a traced request
func GetTraceID(c echo.Context) string {
	traceID, _ := c.Get(TraceIDContextKey).(string)
	return traceID
}

// TraceIDFromContext is GetTraceID for code that only sees the request context
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}
