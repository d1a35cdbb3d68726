package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"transaction-query/internal/dto"
	apierrors "transaction-query/internal/errors"
	"transaction-query/internal/models"
	"transaction-query/internal/services"

	"github.com/labstack/echo/v4"
)

// parseSort builds a SortSpec from the sort and direction parameters
func parseSort(field, direction string) (models.SortSpec, error) {
	sortField, err := models.ParseSortField(field)
	if err != nil {
		return models.SortSpec{}, err
	}
	if sortField == models.SortFieldNone {
		return models.SortSpec{}, nil
	}

	sortDirection, err := models.ParseSortDirection(direction)
	if err != nil {
		return models.SortSpec{}, err
	}

	return models.SortSpec{Field: sortField, Direction: sortDirection}, nil
}

// sendQueryError maps query pipeline failures to error responses
func sendQueryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrQueryInProgress):
		return SendError(c, apierrors.QueryInProgress)
	case errors.Is(err, services.ErrMalformedRecord):
		return SendError(c, apierrors.QueryMalformedRecord)
	case errors.Is(err, services.ErrFetchFailed):
		return SendError(c, apierrors.QueryFetchFailed)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Info("query abandoned before completion",
			"trace_id", getTraceID(c),
			"error", err.Error(),
		)
		return SendError(c, apierrors.QueryFetchFailed)
	default:
		return SendSystemError(c, err)
	}
}

// sendExportError logs a rendering failure and reports QUERY_004
func sendExportError(c echo.Context, format services.ExportFormat, err error) error {
	slog.ErrorContext(c.Request().Context(), "export rendering failed",
		"trace_id", getTraceID(c),
		"format", string(format),
		"error", err,
	)
	return SendError(c, apierrors.QueryExportFailed)
}

// sendArtifact writes an export as a file download
func sendArtifact(c echo.Context, artifact *services.ExportArtifact) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	return c.Blob(http.StatusOK, artifact.ContentType, artifact.Body)
}

func toPaginationInfo[T any](page services.Page[T]) dto.PaginationInfo {
	return dto.PaginationInfo{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
	}
}

func toSessionResponse(view services.SessionView) dto.SessionResponse {
	return dto.SessionResponse{
		ID:           view.ID,
		Status:       string(view.Status),
		Filters:      view.Filters,
		Sort:         view.Sort,
		Transactions: dto.NewTransactionResponses(view.Results.Items),
		Pagination:   toPaginationInfo(view.Results),
		Chart:        view.Chart,
		Error:        view.Error,
		UpdatedAt:    view.UpdatedAt,
	}
}
