package models

import (
	"errors"
	"fmt"
	"strings"
)

// SortField names a TransactionRecord field results can be ordered by
type SortField string

const (
	SortFieldNone          SortField = ""
	SortFieldTimestamp     SortField = "timestamp"
	SortFieldTransactionID SortField = "transactionId"
	SortFieldCredit        SortField = "credit"
	SortFieldDetail        SortField = "detail"
)

// SortDirection represents sort order
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

var (
	ErrInvalidSortField     = errors.New("invalid sort field")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)

// SortSpec selects a field and direction. The zero value means no sorting: source order is kept.
type SortSpec struct {
	Field     SortField     `json:"field,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// IsNone returns true when no sort field is selected
func (s SortSpec) IsNone() bool {
	return s.Field == SortFieldNone
}

// Toggle returns the spec after the user selects field: the same field flips the direction,
// a different field starts ascending.
func (s SortSpec) Toggle(field SortField) SortSpec {
	if field == SortFieldNone {
		return SortSpec{}
	}

	if s.Field == field {
		if s.Direction == SortAscending {
			return SortSpec{Field: field, Direction: SortDescending}
		}
		return SortSpec{Field: field, Direction: SortAscending}
	}

	return SortSpec{Field: field, Direction: SortAscending}
}

// String returns the spec as "field:direction", or "none"
func (s SortSpec) String() string {
	if s.IsNone() {
		return "none"
	}
	return string(s.Field) + ":" + string(s.Direction)
}

// ParseSortField maps wire names, including the original column keys, to a SortField.
// An empty name yields SortFieldNone.
func ParseSortField(name string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return SortFieldNone, nil
	case "timestamp", "datetime", "date_time":
		return SortFieldTimestamp, nil
	case "transactionid", "transid", "transaction_id", "id":
		return SortFieldTransactionID, nil
	case "credit", "creditamount", "credit_amount", "amount":
		return SortFieldCredit, nil
	case "detail", "description":
		return SortFieldDetail, nil
	default:
		return SortFieldNone, fmt.Errorf("%w: %q", ErrInvalidSortField, name)
	}
}

// ParseSortDirection maps "asc"/"desc" (any case); empty defaults to ascending
func ParseSortDirection(name string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortDirection, name)
	}
}
