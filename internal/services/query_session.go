package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"transaction-query/internal/models"
)

// FetchErrorMessage is the user-facing text for any failed query
const FetchErrorMessage = "An error occurred while fetching the data. Please try again."

var ErrQueryInProgress = errors.New("a query is already in progress for this session")

// SessionStatus is the lifecycle position of a query session
type SessionStatus string

const (
	SessionIdle    SessionStatus = "idle"
	SessionLoading SessionStatus = "loading"
	SessionSuccess SessionStatus = "success"
	SessionError   SessionStatus = "error"
)

// SessionView is a point-in-time snapshot of a session
type SessionView struct {
	ID        string                         `json:"id"`
	Status    SessionStatus                  `json:"status"`
	Filters   models.FilterParams            `json:"filters"`
	Sort      models.SortSpec                `json:"sort"`
	Results   Page[models.TransactionRecord] `json:"results"`
	Chart     []models.ChartPoint            `json:"chart"`
	Error     string                         `json:"error,omitempty"`
	UpdatedAt time.Time                      `json:"updatedAt"`
}

// QuerySession holds the filters, results, sort and page of one interactive query.
// Submissions are serialized; all other operations are synchronous.
type QuerySession struct {
	id      string
	query   QueryServiceInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger

	// slot admits one in-flight Submit
	slot chan struct{}

	mu        sync.Mutex
	status    SessionStatus
	filters   models.FilterRequest
	results   []models.TransactionRecord
	sorted    []models.TransactionRecord
	sort      models.SortSpec
	page      models.PageState
	errorText string
	updatedAt time.Time
}

// NewQuerySession creates an idle session with no results
func NewQuerySession(id string, query QueryServiceInterface, metrics MetricsRecorderInterface) *QuerySession {
	return &QuerySession{
		id:        id,
		query:     query,
		metrics:   metrics,
		logger:    slog.Default(),
		slot:      make(chan struct{}, 1),
		status:    SessionIdle,
		results:   []models.TransactionRecord{},
		sorted:    []models.TransactionRecord{},
		page:      models.NewPageState(),
		updatedAt: time.Now(),
	}
}

func (s *QuerySession) ID() string {
	return s.id
}

// Submit runs a query for filters. A concurrent Submit waits for the running one; if ctx ends
// while waiting the call returns ErrQueryInProgress. A ctx that has already ended is
// returned as is.
//
// On success the results are replaced and the page resets to 1. On failure the previous results
// and page are kept and the session reports FetchErrorMessage. A result that arrives after ctx
// ended is discarded.
func (s *QuerySession) Submit(ctx context.Context, filters models.FilterRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrQueryInProgress, ctx.Err())
	}
	defer func() { <-s.slot }()

	s.mu.Lock()
	previous := s.status
	s.status = SessionLoading
	s.mu.Unlock()

	results, err := s.query.Execute(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		s.status = previous
		s.logger.Info("query result discarded",
			slog.String("session_id", s.id),
			slog.String("reason", ctxErr.Error()),
		)
		return ctxErr
	}

	s.updatedAt = time.Now()

	if err != nil {
		s.status = SessionError
		s.errorText = FetchErrorMessage
		s.logger.Warn("session query failed",
			slog.String("session_id", s.id),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.filters = filters
	s.results = results
	s.sorted = SortRecords(results, s.sort)
	s.page = models.NewPageState()
	s.status = SessionSuccess
	s.errorText = ""

	return nil
}

// SetSort applies the toggle rule for field and keeps the current page in range
func (s *QuerySession) SetSort(field models.SortField) models.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sort = s.sort.Toggle(field)
	s.sorted = SortRecords(s.results, s.sort)
	s.page = s.page.Clamp(len(s.sorted))
	s.updatedAt = time.Now()

	return s.sort
}

// SetPage moves to page, clamped into [1, TotalPages]
func (s *QuerySession) SetPage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page.CurrentPage = page
	s.page = s.page.Clamp(len(s.sorted))
	s.updatedAt = time.Now()

	return s.page.CurrentPage
}

// Status returns the current lifecycle status
func (s *QuerySession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// View returns a snapshot of the session
func (s *QuerySession) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionView{
		ID:        s.id,
		Status:    s.status,
		Filters:   s.filters.Params(),
		Sort:      s.sort,
		Results:   Paginate(s.sorted, s.page.PageSize, s.page.CurrentPage),
		Chart:     ChartSeries(s.results),
		Error:     s.errorText,
		UpdatedAt: s.updatedAt,
	}
}

// Export renders the full sorted result set
func (s *QuerySession) Export(format ExportFormat) (*ExportArtifact, error) {
	s.mu.Lock()
	records := s.sorted
	s.mu.Unlock()

	artifact, err := Export(records, format)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter("export.generated", map[string]string{"format": string(format)})
	return artifact, nil
}
