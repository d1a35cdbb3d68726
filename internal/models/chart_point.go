package models

// ChartPoint is one (time, credit) sample of the result series handed to chart renderers
type ChartPoint struct {
	Label  string  `json:"label"`
	Credit float64 `json:"credit"`
}
