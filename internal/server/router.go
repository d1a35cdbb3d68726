package server

import (
	"context"
	"log/slog"
	"time"

	"transaction-query/docs"
	"transaction-query/internal/config"
	"transaction-query/internal/handlers"
	appmiddleware "transaction-query/internal/middleware"
	"transaction-query/internal/repositories"
	"transaction-query/internal/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies are the wired components the router exposes over HTTP
type Dependencies struct {
	Config       *config.Config
	QueryService services.QueryServiceInterface
	Sessions     services.SessionStoreInterface
	Metrics      services.MetricsRecorderInterface
	Gatherer     prometheus.Gatherer

	// Set only for the database source
	DB              *gorm.DB
	TransactionRepo repositories.TransactionRepositoryInterface
	Generator       services.TransactionGeneratorInterface
}

// NewRouter builds the Echo instance with the middleware chain and every route.
// Background work (rate-limiter visitors and the idle session sweep) stops when ctx is cancelled.
func NewRouter(ctx context.Context, deps Dependencies) *echo.Echo {
	cfg := deps.Config
	location := cfg.Source.Location
	if location == nil {
		location = time.UTC
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler

	e.Use(appmiddleware.RequestID())
	e.Use(appmiddleware.PanicRecovery())
	e.Use(appmiddleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:  []string{echo.HeaderContentType, appmiddleware.TraceIDHeader, echo.HeaderXRequestID},
		ExposeHeaders: []string{appmiddleware.TraceIDHeader, echo.HeaderContentDisposition},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(appmiddleware.RateLimiter(ctx, cfg.Security))

	healthHandler := handlers.NewHealthCheckHandler(deps.DB, deps.QueryService.SourceName())
	e.GET("/health", healthHandler.HealthCheck)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	docsHandler := handlers.NewDocsHandler(docs.ScalarHTML, docs.OpenAPI)
	e.GET("/docs", docsHandler.ServeScalarUI)
	e.GET("/docs/openapi.json", docsHandler.ServeOpenAPI)

	api := e.Group("/api/v1")

	transactionHandler := handlers.NewTransactionHandler(deps.QueryService, deps.Metrics, location)
	api.GET("/transactions", transactionHandler.ListTransactions)
	api.GET("/transactions/export", transactionHandler.ExportTransactions)

	sessionHandler := handlers.NewSessionHandler(deps.Sessions, services.NewSessionLogger(slog.Default(), appmiddleware.TraceIDFromContext), location)
	go deps.Sessions.Cleanup(ctx)
	sessions := api.Group("/sessions")
	sessions.POST("", sessionHandler.CreateSession)
	sessions.GET("/:id", sessionHandler.GetSession)
	sessions.DELETE("/:id", sessionHandler.DeleteSession)
	sessions.POST("/:id/query", sessionHandler.SubmitQuery)
	sessions.PUT("/:id/sort", sessionHandler.SetSort)
	sessions.PUT("/:id/page", sessionHandler.SetPage)
	sessions.GET("/:id/export", sessionHandler.ExportSession)

	if cfg.IsDevelopment() && deps.TransactionRepo != nil && deps.Generator != nil {
		devHandler := handlers.NewDevHandler(deps.TransactionRepo, deps.Generator)
		api.POST("/dev/transactions/generate", devHandler.GenerateTestData)
	}

	return e
}
