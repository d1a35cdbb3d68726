package main

import (
	"context"
	"fmt"
	"log/slog"

	"transaction-query/internal/config"
	"transaction-query/internal/database"
	"transaction-query/internal/models"
	"transaction-query/internal/server"
	"transaction-query/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// pipeline is the query stack assembled for a single CLI invocation
type pipeline struct {
	cfg   *config.Config
	query services.QueryServiceInterface
	db    *database.DB
}

func openPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	p := &pipeline{cfg: cfg}

	var gormDB *gorm.DB
	if cfg.UsesDatabase() {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		p.db = db
		gormDB = db.DB
	}

	// metrics are recorded but never scraped in a one-shot process
	metrics := services.NewPrometheusMetrics(prometheus.NewRegistry())

	source, err := server.NewTransactionSource(cfg, gormDB, metrics, slog.Default())
	if err != nil {
		p.Close()
		return nil, err
	}

	p.query = services.NewQueryService(source, metrics, services.QueryServiceConfig{
		StrictRecords: cfg.Source.StrictRecords,
		Location:      cfg.Source.Location,
	})
	return p, nil
}

func (p *pipeline) Close() {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
}

// run executes the query and applies the sort; results keep their source order when spec is none
func (p *pipeline) run(ctx context.Context, f *filterFlags) ([]models.TransactionRecord, models.SortSpec, error) {
	filters, err := models.ParseFilterRequest(f.params(), p.cfg.Source.Location)
	if err != nil {
		return nil, models.SortSpec{}, err
	}

	spec, err := f.sortSpec()
	if err != nil {
		return nil, models.SortSpec{}, err
	}

	records, err := p.query.Execute(ctx, filters)
	if err != nil {
		return nil, spec, err
	}

	return services.SortRecords(records, spec), spec, nil
}

// filterFlags are the filter and sort flags shared by query and export
type filterFlags struct {
	startDate  string
	endDate    string
	minCredit  string
	maxCredit  string
	searchTerm string
	sortField  string
	descending bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "inclusive lower date bound (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&f.endDate, "end-date", "", "inclusive upper date bound (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&f.minCredit, "min-credit", "", "inclusive minimum credit")
	cmd.Flags().StringVar(&f.maxCredit, "max-credit", "", "inclusive maximum credit")
	cmd.Flags().StringVar(&f.searchTerm, "search", "", "case-insensitive substring of the detail")
	cmd.Flags().StringVar(&f.sortField, "sort", "", "sort field (timestamp, transactionId, credit, detail)")
	cmd.Flags().BoolVar(&f.descending, "desc", false, "sort descending")
}

func (f *filterFlags) params() models.FilterParams {
	return models.FilterParams{
		StartDate:  f.startDate,
		EndDate:    f.endDate,
		MinCredit:  f.minCredit,
		MaxCredit:  f.maxCredit,
		SearchTerm: f.searchTerm,
	}
}

func (f *filterFlags) sortSpec() (models.SortSpec, error) {
	field, err := models.ParseSortField(f.sortField)
	if err != nil {
		return models.SortSpec{}, err
	}
	if field == models.SortFieldNone {
		return models.SortSpec{}, nil
	}

	direction := models.SortAscending
	if f.descending {
		direction = models.SortDescending
	}
	return models.SortSpec{Field: field, Direction: direction}, nil
}
