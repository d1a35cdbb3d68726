package main

import (
	"fmt"
	"io"

	"transaction-query/internal/models"
	"transaction-query/internal/services"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const creditColumn = 2

var tableHeaders = []string{"Date", "Transaction ID", "Credit", "Detail"}

// renderPage writes one page of records as a table followed by the page footer
func renderPage(w io.Writer, page services.Page[models.TransactionRecord], spec models.SortSpec) error {
	if page.TotalItems == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No transactions found"))
		return err
	}

	rows := make([][]string, 0, len(page.Items))
	for _, record := range page.Items {
		rows = append(rows, []string{
			record.FormattedTimestamp(),
			record.TransactionID,
			record.Credit.StringFixed(2),
			record.Detail,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == creditColumn:
				return TableNumberStyle
			default:
				return TableCellStyle
			}
		}).
		Headers(tableHeaders...).
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, pageFooter(page, spec))
	return err
}

func pageFooter(page services.Page[models.TransactionRecord], spec models.SortSpec) string {
	footer := fmt.Sprintf("Page %d of %d | %d transactions", page.Page, page.TotalPages, page.TotalItems)
	if !spec.IsNone() {
		footer += " | sorted by " + spec.String()
	}
	return SubtleStyle.Render(footer)
}
