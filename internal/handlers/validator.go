package handlers

import (
	"transaction-query/internal/validation"

	"github.com/labstack/echo/v4"
)

// requestValidator adapts the shared query rules to echo.Validator.
// Failures are returned as validator.ValidationErrors for the central error handler.
type requestValidator struct {
	rules *validation.Validator
}

// NewValidator returns the echo.Validator used by every route
func NewValidator() echo.Validator {
	return requestValidator{rules: validation.GetValidator()}
}

func (v requestValidator) Validate(i any) error {
	return v.rules.GetValidate().Struct(i)
}
