package services

import (
	"errors"
	"fmt"
	"strings"

	"transaction-query/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	CSVFileName  = "transaction_results.csv"
	XLSXFileName = "transaction_results.xlsx"

	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	csvHeader   = "Date & Time,Transaction ID,Credit,Detail"
	xlsxSheet   = "Transactions"
	xlsxColumns = "D"
)

var ErrUnsupportedExportFormat = errors.New("unsupported export format")

// ExportFormat names a supported artifact type
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat maps a format name to an ExportFormat; empty means CSV
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return ExportFormatCSV, nil
	case "xlsx", "excel":
		return ExportFormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, name)
	}
}

// ExportArtifact is a downloadable rendering of a result set
type ExportArtifact struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportCSV renders records as CSV text: a fixed header, then one line per record in order.
// Lines are joined with "\n" without a trailing newline. The detail column is always quoted
// and embedded quotes are written as-is.
func ExportCSV(records []models.TransactionRecord) string {
	var b strings.Builder
	b.WriteString(csvHeader)

	for i := range records {
		b.WriteByte('\n')
		b.WriteString(records[i].FormattedTimestamp())
		b.WriteByte(',')
		b.WriteString(records[i].TransactionID)
		b.WriteByte(',')
		b.WriteString(records[i].Credit.String())
		b.WriteString(`,"`)
		b.WriteString(records[i].Detail)
		b.WriteByte('"')
	}

	return b.String()
}

// ExportXLSX renders records into a single-sheet workbook with the CSV header and a numeric credit column
func ExportXLSX(records []models.TransactionRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Date & Time", "Transaction ID", "Credit", "Detail"}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}

		row := []interface{}{
			records[i].FormattedTimestamp(),
			records[i].TransactionID,
			records[i].Credit.InexactFloat64(),
			records[i].Detail,
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", xlsxColumns, 22); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders records in the given format
func Export(records []models.TransactionRecord, format ExportFormat) (*ExportArtifact, error) {
	switch format {
	case ExportFormatCSV:
		return &ExportArtifact{
			FileName:    CSVFileName,
			ContentType: CSVContentType,
			Body:        []byte(ExportCSV(records)),
		}, nil
	case ExportFormatXLSX:
		body, err := ExportXLSX(records)
		if err != nil {
			return nil, err
		}
		return &ExportArtifact{
			FileName:    XLSXFileName,
			ContentType: XLSXContentType,
			Body:        body,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, format)
	}
}
