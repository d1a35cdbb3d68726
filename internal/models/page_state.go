package models

// DefaultPageSize is the fixed number of results shown per page
const DefaultPageSize = 10

// PageState tracks the visible page of a result set
type PageState struct {
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
}

// NewPageState returns the state used after every new query
func NewPageState() PageState {
	return PageState{
		PageSize:    DefaultPageSize,
		CurrentPage: 1,
	}
}

// TotalPages returns ceil(resultCount / PageSize), never less than 1
func (p PageState) TotalPages(resultCount int) int {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	pages := (resultCount + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp returns the state with CurrentPage moved into [1, TotalPages(resultCount)]
func (p PageState) Clamp(resultCount int) PageState {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}

	if total := p.TotalPages(resultCount); p.CurrentPage > total {
		p.CurrentPage = total
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	return p
}

