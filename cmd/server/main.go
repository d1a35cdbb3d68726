package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transaction-query/internal/config"
	"transaction-query/internal/database"
	"transaction-query/internal/repositories"
	"transaction-query/internal/server"
	"transaction-query/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Dependencies{Config: cfg}

	var gormDB *gorm.DB
	if cfg.UsesDatabase() {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		gormDB = db.DB
		repo := repositories.NewTransactionRepository(gormDB)
		deps.DB = gormDB
		deps.TransactionRepo = repo
		deps.Generator = services.NewTransactionGenerator()
	}

	metrics := services.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	deps.Metrics = metrics
	deps.Gatherer = prometheus.DefaultGatherer

	source, err := server.NewTransactionSource(cfg, gormDB, metrics, logger)
	if err != nil {
		log.Fatalf("Failed to create transaction source: %v", err)
	}

	deps.QueryService = services.NewQueryService(source, metrics, services.QueryServiceConfig{
		StrictRecords: cfg.Source.StrictRecords,
		Location:      cfg.Source.Location,
	})
	deps.Sessions = services.NewSessionStore(deps.QueryService, metrics, services.SessionStoreConfig{
		MaxSessions: cfg.Sessions.MaxActive,
		IdleTimeout: cfg.Sessions.IdleTimeout,
	})

	e := server.NewRouter(ctx, deps)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Starting server",
			"addr", srv.Addr,
			"environment", cfg.Server.Environment,
			"source", source.Name(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
