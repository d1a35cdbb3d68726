package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var panicsRecoveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_panics_recovered_total",
		Help: "Total number of handler panics recovered by endpoint",
	},
	[]string{"endpoint"},
)

// PanicError is returned in place of a handler panic
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// PanicRecovery turns a handler panic into a *PanicError so that
// CustomHTTPErrorHandler renders it like any other internal failure
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				panicErr := &PanicError{Value: r, Stack: debug.Stack()}
				slog.ErrorContext(c.Request().Context(), "Panic recovered",
					"trace_id", GetTraceID(c),
					"panic", fmt.Sprint(r),
					"stack_trace", string(panicErr.Stack),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
				)
				panicsRecoveredTotal.WithLabelValues(c.Path()).Inc()
				err = panicErr
			}()

			return next(c)
		}
	}
}
