package services_test

import (
	"testing"
	"time"

	"transaction-query/internal/models"
	"transaction-query/internal/repositories"
	"transaction-query/internal/services"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRecords(t *testing.T) []models.TransactionRecord {
	t.Helper()
	records, err := repositories.FixtureRecords(time.UTC)
	require.NoError(t, err)
	return records
}

func TestSortRecords_CreditDescending(t *testing.T) {
	sorted := services.SortRecords(fixtureRecords(t), models.SortSpec{Field: models.SortFieldCredit, Direction: models.SortDescending})

	require.Len(t, sorted, 10)
	assert.Equal(t, "T004", sorted[0].TransactionID)
	assert.Equal(t, "T005", sorted[len(sorted)-1].TransactionID)
	for i := 1; i < len(sorted); i++ {
		assert.True(t, sorted[i-1].Credit.GreaterThanOrEqual(sorted[i].Credit))
	}
}

func TestSortRecords_NaturalOrderPerField(t *testing.T) {
	records := fixtureRecords(t)

	byDetail := services.SortRecords(records, models.SortSpec{Field: models.SortFieldDetail, Direction: models.SortAscending})
	assert.Equal(t, "Book store purchase", byDetail[0].Detail)
	assert.Equal(t, "Subscription renewal", byDetail[len(byDetail)-1].Detail)

	byID := services.SortRecords(records, models.SortSpec{Field: models.SortFieldTransactionID, Direction: models.SortDescending})
	assert.Equal(t, "T010", byID[0].TransactionID)

	byTime := services.SortRecords(records, models.SortSpec{Field: models.SortFieldTimestamp, Direction: models.SortDescending})
	assert.Equal(t, "T010", byTime[0].TransactionID)
	assert.Equal(t, "T001", byTime[9].TransactionID)
}

func TestSortRecords_NoneKeepsOrderAndCopies(t *testing.T) {
	records := fixtureRecords(t)

	sorted := services.SortRecords(records, models.SortSpec{})
	assert.Equal(t, records, sorted)

	sorted[0].TransactionID = "changed"
	assert.Equal(t, "T001", records[0].TransactionID)

	assert.NotNil(t, services.SortRecords(nil, models.SortSpec{Field: models.SortFieldCredit, Direction: models.SortAscending}))
}

func TestSortRecords_DoesNotMutateInput(t *testing.T) {
	records := fixtureRecords(t)
	original := append([]models.TransactionRecord(nil), records...)

	services.SortRecords(records, models.SortSpec{Field: models.SortFieldCredit, Direction: models.SortAscending})

	assert.Equal(t, original, records)
}

func TestSortRecords_IsStable(t *testing.T) {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.TransactionRecord, 50)
	for i := range records {
		records[i] = models.TransactionRecord{
			TransactionID: gofakeit.UUID(),
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			Credit:        decimal.NewFromInt(int64(gofakeit.Number(1, 4)) * 50),
			Detail:        gofakeit.RandomString([]string{"a", "b", "c"}),
		}
	}

	position := make(map[string]int, len(records))
	for i, r := range records {
		position[r.TransactionID] = i
	}

	for _, direction := range []models.SortDirection{models.SortAscending, models.SortDescending} {
		sorted := services.SortRecords(records, models.SortSpec{Field: models.SortFieldCredit, Direction: direction})
		for i := 1; i < len(sorted); i++ {
			if sorted[i-1].Credit.Equal(sorted[i].Credit) {
				assert.Less(t, position[sorted[i-1].TransactionID], position[sorted[i].TransactionID],
					"tied records keep source order (%s)", direction)
			}
		}
	}
}

func TestSortRecords_ToggleReversesDistinctKeys(t *testing.T) {
	records := fixtureRecords(t)

	spec := models.SortSpec{}.Toggle(models.SortFieldCredit)
	ascending := services.SortRecords(records, spec)

	spec = spec.Toggle(models.SortFieldCredit)
	require.Equal(t, models.SortDescending, spec.Direction)
	descending := services.SortRecords(records, spec)

	for i := range ascending {
		assert.Equal(t, ascending[i].TransactionID, descending[len(descending)-1-i].TransactionID)
	}
}

func TestSortRecords_ToggleWithTiesIsNotAReversal(t *testing.T) {
	records := []models.TransactionRecord{
		{TransactionID: "A", Credit: decimal.NewFromInt(10)},
		{TransactionID: "B", Credit: decimal.NewFromInt(10)},
		{TransactionID: "C", Credit: decimal.NewFromInt(5)},
	}

	ascending := services.SortRecords(records, models.SortSpec{Field: models.SortFieldCredit, Direction: models.SortAscending})
	descending := services.SortRecords(records, models.SortSpec{Field: models.SortFieldCredit, Direction: models.SortDescending})

	assert.Equal(t, []string{"C", "A", "B"}, transactionIDs(ascending))
	assert.Equal(t, []string{"A", "B", "C"}, transactionIDs(descending))
}
