package dto

import (
	"time"

	"transaction-query/internal/models"
)

// TransactionQueryRequest contains the filter, sort and page parameters of a transaction query
type TransactionQueryRequest struct {
	StartDate  string `json:"startDate" query:"startDate" validate:"filter_date"`
	EndDate    string `json:"endDate" query:"endDate" validate:"filter_date"`
	MinCredit  string `json:"minCredit" query:"minCredit" validate:"credit_bound"`
	MaxCredit  string `json:"maxCredit" query:"maxCredit" validate:"credit_bound"`
	SearchTerm string `json:"searchTerm" query:"searchTerm" validate:"max=200"`
	Sort       string `json:"sort" query:"sort" validate:"sort_field"`
	Direction  string `json:"direction" query:"direction" validate:"sort_direction"`
	Page       int    `json:"page" query:"page"`
}

// FilterParams returns the filter part of the request
func (r TransactionQueryRequest) FilterParams() models.FilterParams {
	return models.FilterParams{
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		MinCredit:  r.MinCredit,
		MaxCredit:  r.MaxCredit,
		SearchTerm: r.SearchTerm,
	}
}

// ExportTransactionsRequest is a query whose full result set is downloaded
type ExportTransactionsRequest struct {
	TransactionQueryRequest
	Format string `json:"format" query:"format" validate:"export_format"`
}

// TransactionResponse is one record as returned by the API
type TransactionResponse struct {
	TransactionID string    `json:"transactionId"`
	DateTime      string    `json:"dateTime"`
	Timestamp     time.Time `json:"timestamp"`
	Credit        string    `json:"credit"`
	Detail        string    `json:"detail"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// ListTransactionsResponse represents the response for a transaction query
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationInfo        `json:"pagination"`
	Sort         models.SortSpec       `json:"sort"`
	Chart        []models.ChartPoint   `json:"chart"`
	Source       string                `json:"source"`
}

// NewTransactionResponses converts records to their API form, keeping order
func NewTransactionResponses(records []models.TransactionRecord) []TransactionResponse {
	responses := make([]TransactionResponse, len(records))
	for i := range records {
		responses[i] = TransactionResponse{
			TransactionID: records[i].TransactionID,
			DateTime:      records[i].FormattedTimestamp(),
			Timestamp:     records[i].Timestamp,
			Credit:        records[i].Credit.String(),
			Detail:        records[i].Detail,
		}
	}
	return responses
}
