package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"transaction-query/internal/models"
)

// RemoteSourceName labels the HTTP source in logs and metrics
const RemoteSourceName = "remote"

var (
	ErrRemoteStatus   = errors.New("remote source returned an error status")
	ErrRemoteDecoding = errors.New("failed to decode remote transactions")
)

// remoteSource fetches candidates from a transactions endpoint over HTTP
type remoteSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRemoteSource creates a source reading GET {baseURL}/transactions.
// A nil httpClient gets a 30s timeout; a nil logger discards output.
func NewRemoteSource(baseURL string, httpClient *http.Client, logger *slog.Logger) TransactionSourceInterface {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &remoteSource{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (s *remoteSource) Name() string {
	return RemoteSourceName
}

// FetchCandidates forwards the present bounds as query parameters and decodes a JSON array
func (s *remoteSource) FetchCandidates(ctx context.Context, filters models.FilterRequest) ([]models.RawTransaction, error) {
	u, err := url.Parse(s.baseURL + "/transactions")
	if err != nil {
		return nil, fmt.Errorf("invalid remote base URL: %w", err)
	}
	u.RawQuery = buildQuery(filters.Params()).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, s.parseErrorResponse(resp)
	}

	var records []models.RawTransaction
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteDecoding, err)
	}

	s.logger.Debug("remote transactions fetched", "url", u.String(), "count", len(records))
	return records, nil
}

// buildQuery keeps only the parameters that carry a value
func buildQuery(params models.FilterParams) url.Values {
	q := url.Values{}
	for key, value := range map[string]string{
		"startDate":  params.StartDate,
		"endDate":    params.EndDate,
		"minCredit":  params.MinCredit,
		"maxCredit":  params.MaxCredit,
		"searchTerm": params.SearchTerm,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

// parseErrorResponse attempts to parse an error response from the server
func (s *remoteSource) parseErrorResponse(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("%w: status %d: %s", ErrRemoteStatus, resp.StatusCode, string(body))
	}

	return fmt.Errorf("%w: status %d: %s", ErrRemoteStatus, resp.StatusCode, errResp.Error)
}
