package dto

// Synthetic data generation limits for the development endpoint
const (
	DefaultGenerateCount = 100
	DefaultGenerateDays  = 30
)

// GenerateTransactionsRequest is read from the query string of the dev generate endpoint
type GenerateTransactionsRequest struct {
	Count int `query:"count" validate:"omitempty,min=1,max=1000"`
	Days  int `query:"days" validate:"omitempty,min=1,max=365"`
}

// WithDefaults fills in zero fields
func (r GenerateTransactionsRequest) WithDefaults() GenerateTransactionsRequest {
	if r.Count == 0 {
		r.Count = DefaultGenerateCount
	}
	if r.Days == 0 {
		r.Days = DefaultGenerateDays
	}
	return r
}

// DateRange is an inclusive RFC 3339 time span
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GenerateTransactionsResponse reports what the dev generate endpoint stored
type GenerateTransactionsResponse struct {
	Message             string    `json:"message"`
	TransactionsCreated int64     `json:"transactions_created"`
	TotalTransactions   int64     `json:"total_transactions"`
	DateRange           DateRange `json:"date_range"`
}
