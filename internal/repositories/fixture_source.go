package repositories

import (
	"context"
	"fmt"
	"time"

	"transaction-query/internal/models"
)

// FixtureSourceName labels the built-in dataset in logs and metrics
const FixtureSourceName = "fixture"

var fixtureTransactions = []models.RawTransaction{
	{DateTime: "2023-06-01 10:30", TransactionID: "T001", Credit: "100", Detail: "Purchase at Store A"},
	{DateTime: "2023-06-02 15:45", TransactionID: "T002", Credit: "200", Detail: "Online payment for Service B"},
	{DateTime: "2023-06-03 09:15", TransactionID: "T003", Credit: "150", Detail: "Subscription renewal"},
	{DateTime: "2023-06-04 14:20", TransactionID: "T004", Credit: "300", Detail: "Refund from Store C"},
	{DateTime: "2023-06-05 11:00", TransactionID: "T005", Credit: "50", Detail: "Coffee shop purchase"},
	{DateTime: "2023-06-06 16:30", TransactionID: "T006", Credit: "180", Detail: "Monthly utility bill"},
	{DateTime: "2023-06-07 13:45", TransactionID: "T007", Credit: "90", Detail: "Book store purchase"},
	{DateTime: "2023-06-08 10:00", TransactionID: "T008", Credit: "250", Detail: "Electronics store purchase"},
	{DateTime: "2023-06-09 17:20", TransactionID: "T009", Credit: "120", Detail: "Restaurant dinner"},
	{DateTime: "2023-06-10 12:30", TransactionID: "T010", Credit: "75", Detail: "Gas station fill-up"},
}

// fixtureSource serves the fixed in-memory dataset used when no live source is configured
type fixtureSource struct {
	delay time.Duration
}

// NewFixtureSource creates a source over the fixture dataset.
// A positive delay simulates network latency and is cut short by context cancellation.
func NewFixtureSource(delay time.Duration) TransactionSourceInterface {
	return &fixtureSource{
		delay: delay,
	}
}

func (s *fixtureSource) Name() string {
	return FixtureSourceName
}

// FetchCandidates returns the whole dataset in source order; bounds are left to the caller
func (s *fixtureSource) FetchCandidates(ctx context.Context, _ models.FilterRequest) ([]models.RawTransaction, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	return FixtureTransactions(), nil
}

// FixtureTransactions returns a copy of the fixture dataset
func FixtureTransactions() []models.RawTransaction {
	records := make([]models.RawTransaction, len(fixtureTransactions))
	copy(records, fixtureTransactions)
	return records
}

// FixtureRecords returns the fixture dataset normalized in loc, ready to be stored
func FixtureRecords(loc *time.Location) ([]models.TransactionRecord, error) {
	records := make([]models.TransactionRecord, 0, len(fixtureTransactions))
	for _, raw := range fixtureTransactions {
		record, err := raw.Normalize(loc)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize fixture %s: %w", raw.TransactionID, err)
		}
		records = append(records, record)
	}
	return records, nil
}
