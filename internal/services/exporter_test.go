package services_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"transaction-query/internal/models"
	"transaction-query/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportCSV_EmptyIsHeaderOnly(t *testing.T) {
	assert.Equal(t, "Date & Time,Transaction ID,Credit,Detail", services.ExportCSV(nil))
}

func TestExportCSV_Shape(t *testing.T) {
	records := fixtureRecords(t)

	csv := services.ExportCSV(records)
	lines := strings.Split(csv, "\n")

	require.Len(t, lines, len(records)+1)
	assert.False(t, strings.HasSuffix(csv, "\n"))
	assert.Equal(t, "Date & Time,Transaction ID,Credit,Detail", lines[0])
	assert.Equal(t, `2023-06-01 10:30,T001,100,"Purchase at Store A"`, lines[1])
	assert.Equal(t, `2023-06-10 12:30,T010,75,"Gas station fill-up"`, lines[10])
}

func TestExportCSV_FollowsGivenOrder(t *testing.T) {
	sorted := services.SortRecords(fixtureRecords(t), models.SortSpec{Field: models.SortFieldCredit, Direction: models.SortDescending})

	lines := strings.Split(services.ExportCSV(sorted), "\n")

	assert.True(t, strings.HasPrefix(lines[1], "2023-06-04 14:20,T004,300,"))
	assert.True(t, strings.HasPrefix(lines[10], "2023-06-05 11:00,T005,50,"))
}

func TestExportCSV_DetailIsQuotedVerbatim(t *testing.T) {
	records := []models.TransactionRecord{{
		TransactionID: "T100",
		Timestamp:     time.Date(2023, 7, 1, 8, 5, 30, 0, time.UTC),
		Credit:        decimal.RequireFromString("12.50"),
		Detail:        `Paid "Joe", thanks`,
	}}

	lines := strings.Split(services.ExportCSV(records), "\n")

	assert.Equal(t, `2023-07-01 08:05,T100,12.5,"Paid "Joe", thanks"`, lines[1])
}

func TestExportXLSX_WritesHeaderAndRows(t *testing.T) {
	records := fixtureRecords(t)

	body, err := services.ExportXLSX(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)

	assert.Equal(t, []string{"Date & Time", "Transaction ID", "Credit", "Detail"}, rows[0])
	assert.Equal(t, []string{"2023-06-01 10:30", "T001", "100", "Purchase at Store A"}, rows[1])
	assert.Equal(t, "T010", rows[10][1])
}

func TestExport_Artifacts(t *testing.T) {
	records := fixtureRecords(t)

	csvArtifact, err := services.Export(records, services.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "transaction_results.csv", csvArtifact.FileName)
	assert.Equal(t, services.CSVContentType, csvArtifact.ContentType)
	assert.Equal(t, services.ExportCSV(records), string(csvArtifact.Body))

	xlsxArtifact, err := services.Export(records, services.ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "transaction_results.xlsx", xlsxArtifact.FileName)
	assert.NotEmpty(t, xlsxArtifact.Body)

	_, err = services.Export(records, services.ExportFormat("pdf"))
	assert.ErrorIs(t, err, services.ErrUnsupportedExportFormat)
}

func TestParseExportFormat(t *testing.T) {
	tests := map[string]services.ExportFormat{
		"":      services.ExportFormatCSV,
		"CSV":   services.ExportFormatCSV,
		"xlsx":  services.ExportFormatXLSX,
		"excel": services.ExportFormatXLSX,
	}
	for input, expected := range tests {
		format, err := services.ParseExportFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, format, input)
	}

	_, err := services.ParseExportFormat("pdf")
	assert.ErrorIs(t, err, services.ErrUnsupportedExportFormat)
}

func TestChartSeries(t *testing.T) {
	points := services.ChartSeries(fixtureRecords(t))

	require.Len(t, points, 10)
	assert.Equal(t, models.ChartPoint{Label: "2023-06-01 10:30", Credit: 100}, points[0])
	assert.Equal(t, models.ChartPoint{Label: "2023-06-10 12:30", Credit: 75}, points[9])
	assert.Empty(t, services.ChartSeries(nil))
}
