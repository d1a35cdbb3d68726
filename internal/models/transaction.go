package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TimestampLayout is the minute-precision layout used for display and export
const TimestampLayout = "2006-01-02 15:04"

var (
	ErrMalformedTransaction = errors.New("malformed transaction record")
	ErrMissingTimestamp     = errors.New("transaction timestamp is required")
	ErrInvalidTimestamp     = errors.New("transaction timestamp is not a valid date-time")
	ErrMissingTransactionID = errors.New("transaction ID is required")
	ErrInvalidCredit        = errors.New("transaction credit is not a valid number")
	ErrNegativeCredit       = errors.New("transaction credit must not be negative")
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	TimestampLayout,
	"2006-01-02",
}

// TransactionRecord represents one queried transaction
type TransactionRecord struct {
	TransactionID string          `gorm:"type:varchar(64);primary_key" json:"transactionId"`
	Timestamp     time.Time       `gorm:"column:occurred_at;not null;index" json:"timestamp"`
	Credit        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"credit"`
	Detail        string          `gorm:"type:text" json:"detail"`
}

// TableName returns the table name for TransactionRecord
func (t *TransactionRecord) TableName() string {
	return "transactions"
}

// BeforeCreate hook for TransactionRecord
func (t *TransactionRecord) BeforeCreate(tx *gorm.DB) error {
	t.Timestamp = t.Timestamp.UTC()
	return t.Validate()
}

// Validate validates the transaction fields
func (t *TransactionRecord) Validate() error {
	if t.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}

	if strings.TrimSpace(t.TransactionID) == "" {
		return ErrMissingTransactionID
	}

	if t.Credit.IsNegative() {
		return ErrNegativeCredit
	}

	return nil
}

// FormattedTimestamp returns the timestamp at minute precision
func (t *TransactionRecord) FormattedTimestamp() string {
	return t.Timestamp.Format(TimestampLayout)
}

// Raw converts a stored record back into the source shape
func (t *TransactionRecord) Raw() RawTransaction {
	return RawTransaction{
		DateTime:      t.Timestamp.Format(time.RFC3339),
		TransactionID: t.TransactionID,
		Credit:        t.Credit.String(),
		Detail:        t.Detail,
	}
}

// RawTransaction is a candidate record as delivered by a data source, before normalization.
// Every field is kept as text so that sources with loose typing can be coerced uniformly.
type RawTransaction struct {
	DateTime      string `json:"dateTime"`
	TransactionID string `json:"transId"`
	Credit        string `json:"credit"`
	Detail        string `json:"detail"`
}

// UnmarshalJSON accepts both the camelCase and snake_case field conventions
func (r *RawTransaction) UnmarshalJSON(data []byte) error {
	var aux struct {
		DateTime      json.RawMessage `json:"dateTime"`
		DateTimeSnake json.RawMessage `json:"date_time"`
		TransID       json.RawMessage `json:"transId"`
		TransactionID json.RawMessage `json:"transaction_id"`
		Credit        json.RawMessage `json:"credit"`
		Detail        json.RawMessage `json:"detail"`
		Description   json.RawMessage `json:"description"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = RawTransaction{
		DateTime:      firstNonEmpty(coerceString(aux.DateTime), coerceString(aux.DateTimeSnake)),
		TransactionID: firstNonEmpty(coerceString(aux.TransID), coerceString(aux.TransactionID)),
		Credit:        coerceString(aux.Credit),
		Detail:        firstNonEmpty(coerceString(aux.Detail), coerceString(aux.Description)),
	}

	return nil
}

// Normalize coerces the raw record into a TransactionRecord.
// Missing credit defaults to 0 and missing detail to "". Errors wrap ErrMalformedTransaction.
func (r RawTransaction) Normalize(loc *time.Location) (TransactionRecord, error) {
	var record TransactionRecord

	if strings.TrimSpace(r.DateTime) == "" {
		return record, fmt.Errorf("%w: %w", ErrMalformedTransaction, ErrMissingTimestamp)
	}

	timestamp, err := ParseTimestamp(r.DateTime, loc)
	if err != nil {
		return record, fmt.Errorf("%w: %w: %q", ErrMalformedTransaction, ErrInvalidTimestamp, r.DateTime)
	}

	credit := decimal.Zero
	if creditStr := strings.TrimSpace(r.Credit); creditStr != "" {
		credit, err = decimal.NewFromString(creditStr)
		if err != nil {
			return record, fmt.Errorf("%w: %w: %q", ErrMalformedTransaction, ErrInvalidCredit, r.Credit)
		}
	}

	record = TransactionRecord{
		TransactionID: strings.TrimSpace(r.TransactionID),
		Timestamp:     timestamp,
		Credit:        credit,
		Detail:        r.Detail,
	}

	if err := record.Validate(); err != nil {
		return TransactionRecord{}, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}

	return record, nil
}

// ParseTimestamp parses the date-time layouts accepted from sources and filter input.
// Values without a zone are interpreted in loc (UTC when nil).
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date-time %q", value)
}

func coerceString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}

	// numbers and booleans keep their literal text
	return trimmed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
