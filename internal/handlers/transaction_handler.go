package handlers

import (
	"net/http"
	"time"

	"transaction-query/internal/dto"
	apierrors "transaction-query/internal/errors"
	"transaction-query/internal/models"
	"transaction-query/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler serves the stateless query pipeline
type TransactionHandler struct {
	queryService services.QueryServiceInterface
	metrics      services.MetricsRecorderInterface
	location     *time.Location
}

// NewTransactionHandler creates a new transaction handler.
// Filter dates without a zone are read in location.
func NewTransactionHandler(
	queryService services.QueryServiceInterface,
	metrics services.MetricsRecorderInterface,
	location *time.Location,
) *TransactionHandler {
	if location == nil {
		location = time.UTC
	}
	return &TransactionHandler{
		queryService: queryService,
		metrics:      metrics,
		location:     location,
	}
}

// ListTransactions runs a query and returns one page of the sorted results
// @Summary Query transactions
// @Description Filter transactions by date range, credit range and detail text, then sort and paginate the result
// @Tags Transactions
// @Produce json
// @Param startDate query string false "Inclusive lower bound (YYYY-MM-DD or YYYY-MM-DD HH:MM)"
// @Param endDate query string false "Inclusive upper bound (YYYY-MM-DD or YYYY-MM-DD HH:MM)"
// @Param minCredit query string false "Inclusive minimum credit"
// @Param maxCredit query string false "Inclusive maximum credit"
// @Param searchTerm query string false "Case-insensitive detail substring"
// @Param sort query string false "Sort field" Enums(timestamp, transactionId, credit, detail)
// @Param direction query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number, clamped into range" default(1)
// @Success 200 {object} dto.ListTransactionsResponse "One page of matching transactions"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid parameters"
// @Failure 502 {object} errors.ErrorResponse "QUERY_002 - Malformed source record"
// @Failure 503 {object} errors.ErrorResponse "QUERY_001 - Data source unavailable"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	var req dto.TransactionQueryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	filters, err := models.ParseFilterRequest(req.FilterParams(), h.location)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails(err.Error()))
	}

	spec, err := parseSort(req.Sort, req.Direction)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidSort, apierrors.WithDetails(err.Error()))
	}

	records, err := h.queryService.Execute(c.Request().Context(), filters)
	if err != nil {
		return sendQueryError(c, err)
	}

	sorted := services.SortRecords(records, spec)
	page := services.Paginate(sorted, models.DefaultPageSize, req.Page)

	return c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.NewTransactionResponses(page.Items),
		Pagination:   toPaginationInfo(page),
		Sort:         spec,
		Chart:        services.ChartSeries(records),
		Source:       h.queryService.SourceName(),
	})
}

// ExportTransactions runs a query and downloads the full sorted result set
// @Summary Export transactions
// @Description Download every matching transaction as CSV or XLSX
// @Tags Transactions
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "transaction_results.csv"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid parameters"
// @Failure 503 {object} errors.ErrorResponse "QUERY_001 - Data source unavailable"
// @Router /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c echo.Context) error {
	var req dto.ExportTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	format, err := services.ParseExportFormat(req.Format)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidExport, apierrors.WithDetails(err.Error()))
	}

	filters, err := models.ParseFilterRequest(req.FilterParams(), h.location)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails(err.Error()))
	}

	spec, err := parseSort(req.Sort, req.Direction)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidSort, apierrors.WithDetails(err.Error()))
	}

	records, err := h.queryService.Execute(c.Request().Context(), filters)
	if err != nil {
		return sendQueryError(c, err)
	}

	artifact, err := services.Export(services.SortRecords(records, spec), format)
	if err != nil {
		return sendExportError(c, format, err)
	}

	h.metrics.IncrementCounter("export.generated", map[string]string{"format": string(format)})

	return sendArtifact(c, artifact)
}
