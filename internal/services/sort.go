package services

import (
	"slices"
	"strings"

	"transaction-query/internal/models"
)

// SortRecords returns a sorted copy of records. The sort is stable in both directions,
// so equal keys keep their input order; a none spec returns the input order unchanged.
func SortRecords(records []models.TransactionRecord, spec models.SortSpec) []models.TransactionRecord {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []models.TransactionRecord{}
	}
	if spec.IsNone() {
		return sorted
	}

	compare := fieldComparator(spec.Field)
	if spec.Direction == models.SortDescending {
		slices.SortStableFunc(sorted, func(a, b models.TransactionRecord) int {
			return compare(b, a)
		})
	} else {
		slices.SortStableFunc(sorted, compare)
	}

	return sorted
}

func fieldComparator(field models.SortField) func(a, b models.TransactionRecord) int {
	switch field {
	case models.SortFieldTimestamp:
		return func(a, b models.TransactionRecord) int {
			return a.Timestamp.Compare(b.Timestamp)
		}
	case models.SortFieldTransactionID:
		return func(a, b models.TransactionRecord) int {
			return strings.Compare(a.TransactionID, b.TransactionID)
		}
	case models.SortFieldCredit:
		return func(a, b models.TransactionRecord) int {
			return a.Credit.Cmp(b.Credit)
		}
	case models.SortFieldDetail:
		return func(a, b models.TransactionRecord) int {
			return strings.Compare(a.Detail, b.Detail)
		}
	default:
		return func(a, b models.TransactionRecord) int { return 0 }
	}
}
