package services

import (
	"transaction-query/internal/models"
)

// Page is one window of a result sequence
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Paginate returns the requested 1-based page of items. The page is clamped into
// [1, TotalPages] and a non-positive pageSize falls back to models.DefaultPageSize.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	state := models.PageState{PageSize: pageSize, CurrentPage: page}.Clamp(len(items))

	start := (state.CurrentPage - 1) * state.PageSize
	end := min(start+state.PageSize, len(items))

	window := make([]T, 0, end-start)
	window = append(window, items[start:end]...)

	return Page[T]{
		Items:      window,
		Page:       state.CurrentPage,
		PageSize:   state.PageSize,
		TotalPages: state.TotalPages(len(items)),
		TotalItems: len(items),
	}
}

// ClampPage moves page into the valid range for totalItems
func ClampPage(page, totalItems, pageSize int) int {
	return models.PageState{PageSize: pageSize, CurrentPage: page}.Clamp(totalItems).CurrentPage
}
