package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidFilter is returned when a filter parameter cannot be parsed
var ErrInvalidFilter = errors.New("invalid filter parameter")

// FilterRequest contains the optional bounds of a transaction query.
// A nil bound imposes no constraint; present bounds compose as a logical AND.
type FilterRequest struct {
	StartDate  *time.Time
	EndDate    *time.Time
	MinCredit  *decimal.Decimal
	MaxCredit  *decimal.Decimal
	SearchTerm string
}

// FilterParams is the wire form of a FilterRequest, every field an optional string
type FilterParams struct {
	StartDate  string `json:"startDate" query:"startDate"`
	EndDate    string `json:"endDate" query:"endDate"`
	MinCredit  string `json:"minCredit" query:"minCredit"`
	MaxCredit  string `json:"maxCredit" query:"maxCredit"`
	SearchTerm string `json:"searchTerm" query:"searchTerm"`
}

// ParseFilterRequest converts wire parameters into a FilterRequest.
// Contradictory bounds (start after end, min above max) are accepted and simply match nothing.
func ParseFilterRequest(params FilterParams, loc *time.Location) (FilterRequest, error) {
	var filters FilterRequest

	if s := strings.TrimSpace(params.StartDate); s != "" {
		startDate, err := ParseTimestamp(s, loc)
		if err != nil {
			return filters, fmt.Errorf("%w: startDate %q is not a valid date", ErrInvalidFilter, s)
		}
		filters.StartDate = &startDate
	}

	if s := strings.TrimSpace(params.EndDate); s != "" {
		endDate, err := ParseTimestamp(s, loc)
		if err != nil {
			return filters, fmt.Errorf("%w: endDate %q is not a valid date", ErrInvalidFilter, s)
		}
		filters.EndDate = &endDate
	}

	if s := strings.TrimSpace(params.MinCredit); s != "" {
		minCredit, err := decimal.NewFromString(s)
		if err != nil {
			return filters, fmt.Errorf("%w: minCredit %q is not a number", ErrInvalidFilter, s)
		}
		filters.MinCredit = &minCredit
	}

	if s := strings.TrimSpace(params.MaxCredit); s != "" {
		maxCredit, err := decimal.NewFromString(s)
		if err != nil {
			return filters, fmt.Errorf("%w: maxCredit %q is not a number", ErrInvalidFilter, s)
		}
		filters.MaxCredit = &maxCredit
	}

	filters.SearchTerm = params.SearchTerm

	return filters, nil
}

// Matches reports whether the record satisfies every present bound
func (f FilterRequest) Matches(record TransactionRecord) bool {
	if f.StartDate != nil && record.Timestamp.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && record.Timestamp.After(*f.EndDate) {
		return false
	}
	if f.MinCredit != nil && record.Credit.LessThan(*f.MinCredit) {
		return false
	}
	if f.MaxCredit != nil && record.Credit.GreaterThan(*f.MaxCredit) {
		return false
	}
	if f.SearchTerm != "" && !strings.Contains(strings.ToLower(record.Detail), strings.ToLower(f.SearchTerm)) {
		return false
	}
	return true
}

// IsEmpty returns true when no bound is set
func (f FilterRequest) IsEmpty() bool {
	return f.StartDate == nil && f.EndDate == nil &&
		f.MinCredit == nil && f.MaxCredit == nil &&
		f.SearchTerm == ""
}

// Params renders the request back into its wire form. Absent bounds become empty strings.
func (f FilterRequest) Params() FilterParams {
	var params FilterParams

	if f.StartDate != nil {
		params.StartDate = formatBound(*f.StartDate)
	}
	if f.EndDate != nil {
		params.EndDate = formatBound(*f.EndDate)
	}
	if f.MinCredit != nil {
		params.MinCredit = f.MinCredit.String()
	}
	if f.MaxCredit != nil {
		params.MaxCredit = f.MaxCredit.String()
	}
	params.SearchTerm = f.SearchTerm

	return params
}

// formatBound keeps calendar dates short so remote endpoints receive what a date input would send
func formatBound(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
