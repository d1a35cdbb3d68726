package services

import (
	"transaction-query/internal/models"
)

// ChartSeries returns one (timestamp label, credit) point per record, in result order
func ChartSeries(records []models.TransactionRecord) []models.ChartPoint {
	points := make([]models.ChartPoint, len(records))
	for i := range records {
		points[i] = models.ChartPoint{
			Label:  records[i].FormattedTimestamp(),
			Credit: records[i].Credit.InexactFloat64(),
		}
	}
	return points
}
