package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"transaction-query/internal/dto"
	apierrors "transaction-query/internal/errors"
	"transaction-query/internal/repositories"
	"transaction-query/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler seeds the database source with synthetic transactions.
// It is only routed in development when the database source is active.
type DevHandler struct {
	transactionRepo repositories.TransactionRepositoryInterface
	generator       services.TransactionGeneratorInterface
	now             func() time.Time
}

// NewDevHandler creates a new development handler
func NewDevHandler(
	transactionRepo repositories.TransactionRepositoryInterface,
	generator services.TransactionGeneratorInterface,
) *DevHandler {
	return &DevHandler{
		transactionRepo: transactionRepo,
		generator:       generator,
		now:             time.Now,
	}
}

// GenerateTestData inserts synthetic transactions spread over the last days
// @Summary Generate synthetic transactions
// @Description Development only. Inserts count generated transactions dated within the last days.
// @Tags Development
// @Produce json
// @Param count query int false "Number of transactions (1-1000)" default(100)
// @Param days query int false "Days of history (1-365)" default(30)
// @Success 200 {object} dto.GenerateTransactionsResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - count or days out of range"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Insert failed"
// @Router /dev/transactions/generate [post]
func (h *DevHandler) GenerateTestData(c echo.Context) error {
	var req dto.GenerateTransactionsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("count and days must be integers"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	req = req.WithDefaults()

	endDate := h.now().UTC()
	startDate := endDate.AddDate(0, 0, -req.Days)
	records := h.generator.GenerateTransactions(startDate, endDate, req.Count)

	ctx := c.Request().Context()
	created, err := h.transactionRepo.CreateBatch(ctx, records)
	if err != nil {
		return SendSystemError(c, err)
	}

	total, err := h.transactionRepo.Count(ctx)
	if err != nil {
		return SendSystemError(c, err)
	}

	slog.InfoContext(ctx, "generated test transactions",
		"trace_id", getTraceID(c),
		"requested", req.Count,
		"created", created,
		"total", total,
	)

	return c.JSON(http.StatusOK, dto.GenerateTransactionsResponse{
		Message:             "test data generated successfully",
		TransactionsCreated: created,
		TotalTransactions:   total,
		DateRange: dto.DateRange{
			Start: startDate.Format(time.RFC3339),
			End:   endDate.Format(time.RFC3339),
		},
	})
}
