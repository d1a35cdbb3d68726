package validation

import (
	"reflect"
	"strings"

	"transaction-query/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("filter_date", validateFilterDate)
	_ = v.RegisterValidation("credit_bound", validateCreditBound)
	_ = v.RegisterValidation("sort_field", validateSortField)
	_ = v.RegisterValidation("sort_direction", validateSortDirection)
	_ = v.RegisterValidation("export_format", validateExportFormat)
	_ = v.RegisterValidation("session_id", validateSessionID)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateFilterDate accepts the date and date-time layouts understood by the query filters
func validateFilterDate(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}

	_, err := models.ParseTimestamp(value, nil)
	return err == nil
}

// validateCreditBound validates that a credit bound is a decimal number
func validateCreditBound(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}

	_, err := decimal.NewFromString(value)
	return err == nil
}

func validateSortField(fl validator.FieldLevel) bool {
	_, err := models.ParseSortField(fl.Field().String())
	return err == nil
}

func validateSortDirection(fl validator.FieldLevel) bool {
	_, err := models.ParseSortDirection(fl.Field().String())
	return err == nil
}

// validateExportFormat validates that the export format is csv or xlsx
func validateExportFormat(fl validator.FieldLevel) bool {
	format := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	validFormats := map[string]bool{
		"":      true,
		"csv":   true,
		"xlsx":  true,
		"excel": true,
	}
	return validFormats[format]
}

// validateSessionID validates that a session ID is a UUID
func validateSessionID(fl validator.FieldLevel) bool {
	_, err := uuid.Parse(fl.Field().String())
	return err == nil
}
