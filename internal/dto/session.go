package dto

import (
	"time"

	"transaction-query/internal/models"
)

// SubmitQueryRequest carries the filters of a session query
type SubmitQueryRequest struct {
	StartDate  string `json:"startDate" validate:"filter_date"`
	EndDate    string `json:"endDate" validate:"filter_date"`
	MinCredit  string `json:"minCredit" validate:"credit_bound"`
	MaxCredit  string `json:"maxCredit" validate:"credit_bound"`
	SearchTerm string `json:"searchTerm" validate:"max=200"`
}

// FilterParams returns the request as filter wire parameters
func (r SubmitQueryRequest) FilterParams() models.FilterParams {
	return models.FilterParams{
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		MinCredit:  r.MinCredit,
		MaxCredit:  r.MaxCredit,
		SearchTerm: r.SearchTerm,
	}
}

// SetSortRequest selects a sort field. Selecting the current field flips the direction.
type SetSortRequest struct {
	Field string `json:"field" validate:"required,sort_field"`
}

// SetPageRequest moves a session to a page. Out-of-range pages are clamped, not rejected.
type SetPageRequest struct {
	Page *int `json:"page" validate:"required"`
}

// SessionResponse is the API form of a session snapshot
type SessionResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Filters      models.FilterParams   `json:"filters"`
	Sort         models.SortSpec       `json:"sort"`
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationInfo        `json:"pagination"`
	Chart        []models.ChartPoint   `json:"chart"`
	Error        string                `json:"error,omitempty"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}
