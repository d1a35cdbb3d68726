package handlers

import (
	"errors"
	"net/http"
	"time"

	"transaction-query/internal/dto"
	apierrors "transaction-query/internal/errors"
	"transaction-query/internal/models"
	"transaction-query/internal/services"

	"github.com/labstack/echo/v4"
)

// SessionHandler exposes interactive query sessions
type SessionHandler struct {
	store    services.SessionStoreInterface
	logger   services.SessionLoggerInterface
	location *time.Location
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store services.SessionStoreInterface, logger services.SessionLoggerInterface, location *time.Location) *SessionHandler {
	if location == nil {
		location = time.UTC
	}
	return &SessionHandler{
		store:    store,
		logger:   logger,
		location: location,
	}
}

func (h *SessionHandler) getSession(c echo.Context) (*services.QuerySession, error) {
	session, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidSessionID) {
			return nil, SendError(c, apierrors.SessionInvalidID)
		}
		if errors.Is(err, services.ErrSessionNotFound) {
			return nil, SendError(c, apierrors.SessionNotFound)
		}
		return nil, SendSystemError(c, err)
	}
	return session, nil
}

// CreateSession opens an idle query session
// @Summary Create query session
// @Tags Sessions
// @Produce json
// @Success 201 {object} dto.SessionResponse "New idle session"
// @Failure 503 {object} errors.ErrorResponse "SESSION_003 - Too many open sessions"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c echo.Context) error {
	session, err := h.store.Create()
	if err != nil {
		if errors.Is(err, services.ErrSessionLimitReached) {
			return SendError(c, apierrors.SessionLimitReached)
		}
		return SendSystemError(c, err)
	}
	h.logger.LogSessionCreated(c.Request().Context(), session.ID())
	return c.JSON(http.StatusCreated, toSessionResponse(session.View()))
}

// GetSession returns the current state of a session
// @Summary Get query session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} dto.SessionResponse "Session snapshot"
// @Failure 400 {object} errors.ErrorResponse "SESSION_002 - Invalid session ID"
// @Failure 404 {object} errors.ErrorResponse "SESSION_001 - Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	session, err := h.getSession(c)
	if session == nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(session.View()))
}

// SubmitQuery runs a query in the session. On failure the previous results stay visible.
// @Summary Submit session query
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body dto.SubmitQueryRequest true "Filters"
// @Success 200 {object} dto.SessionResponse "Session snapshot with the new results"
// @Failure 409 {object} errors.ErrorResponse "QUERY_003 - Query already in progress"
// @Failure 503 {object} errors.ErrorResponse "QUERY_001 - Data source unavailable"
// @Router /sessions/{id}/query [post]
func (h *SessionHandler) SubmitQuery(c echo.Context) error {
	session, err := h.getSession(c)
	if session == nil {
		return err
	}

	var req dto.SubmitQueryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	filters, err := models.ParseFilterRequest(req.FilterParams(), h.location)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails(err.Error()))
	}

	ctx := c.Request().Context()
	h.logger.LogQuerySubmitted(ctx, session.ID(), filters)

	start := time.Now()
	if err := session.Submit(ctx, filters); err != nil {
		h.logger.LogQueryFailed(ctx, session.ID(), err.Error(), time.Since(start).Milliseconds())
		return sendQueryError(c, err)
	}

	view := session.View()
	h.logger.LogQueryCompleted(ctx, session.ID(), view.Results.TotalItems, time.Since(start).Milliseconds())

	return c.JSON(http.StatusOK, toSessionResponse(view))
}

// SetSort selects the sort field of a session
// @Summary Sort session results
// @Description Selecting the current field flips the direction; a new field sorts ascending
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body dto.SetSortRequest true "Sort field"
// @Success 200 {object} dto.SessionResponse "Session snapshot"
// @Router /sessions/{id}/sort [put]
func (h *SessionHandler) SetSort(c echo.Context) error {
	session, err := h.getSession(c)
	if session == nil {
		return err
	}

	var req dto.SetSortRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	field, err := models.ParseSortField(req.Field)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidSort, apierrors.WithDetails(err.Error()))
	}

	spec := session.SetSort(field)
	h.logger.LogSortChanged(c.Request().Context(), session.ID(), spec)

	return c.JSON(http.StatusOK, toSessionResponse(session.View()))
}

// SetPage moves a session to a page, clamped into range
// @Summary Page session results
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body dto.SetPageRequest true "Page number"
// @Success 200 {object} dto.SessionResponse "Session snapshot"
// @Router /sessions/{id}/page [put]
func (h *SessionHandler) SetPage(c echo.Context) error {
	session, err := h.getSession(c)
	if session == nil {
		return err
	}

	var req dto.SetPageRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	session.SetPage(*req.Page)

	return c.JSON(http.StatusOK, toSessionResponse(session.View()))
}

// ExportSession downloads the session's full sorted result set
// @Summary Export session results
// @Tags Sessions
// @Produce text/csv
// @Param id path string true "Session ID (UUID)"
// @Param format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "transaction_results.csv"
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) ExportSession(c echo.Context) error {
	session, err := h.getSession(c)
	if session == nil {
		return err
	}

	format, err := services.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidExport, apierrors.WithDetails(err.Error()))
	}

	artifact, err := session.Export(format)
	if err != nil {
		return sendExportError(c, format, err)
	}
	h.logger.LogExportGenerated(c.Request().Context(), session.ID(), format, session.View().Results.TotalItems)

	return sendArtifact(c, artifact)
}

// DeleteSession closes a session
// @Summary Delete query session
// @Tags Sessions
// @Param id path string true "Session ID (UUID)"
// @Success 204 "Session deleted"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, services.ErrInvalidSessionID) {
			return SendError(c, apierrors.SessionInvalidID)
		}
		if errors.Is(err, services.ErrSessionNotFound) {
			return SendError(c, apierrors.SessionNotFound)
		}
		return SendSystemError(c, err)
	}

	h.logger.LogSessionDeleted(c.Request().Context(), id)
	return c.NoContent(http.StatusNoContent)
}
