package errors

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON envelope returned for every failed request
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the code, message, per-field details and the request trace ID
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption customizes an ErrorResponse
type ErrorOption func(*ErrorResponse)

// WithDetails adds detail messages to the error response
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the default message for the error code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds the envelope for code with its default message
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
			Details: []string{},
		},
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationError builds a VALIDATION_001 response. Details keep the order given,
// which for struct validation is field declaration order.
func NewValidationError(traceID string, details ...string) *ErrorResponse {
	if details == nil {
		details = []string{}
	}
	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// FieldDetail formats one field failure as "field: message"
func FieldDetail(field, message string) string {
	return fmt.Sprintf("%s: %s", field, message)
}

// NewSystemError builds the generic SYSTEM_001 response. The underlying error is never
// part of the body; callers log it against the trace ID.
func NewSystemError(traceID string) *ErrorResponse {
	return NewErrorResponse(SystemInternalError, traceID)
}

var statusByCode = map[ErrorCode]int{
	ValidationGeneral:       http.StatusBadRequest,
	ValidationRequiredField: http.StatusBadRequest,
	ValidationInvalidFormat: http.StatusBadRequest,
	ValidationOutOfRange:    http.StatusBadRequest,
	ValidationInvalidDate:   http.StatusBadRequest,
	ValidationInvalidCredit: http.StatusBadRequest,
	ValidationInvalidSort:   http.StatusBadRequest,
	ValidationInvalidPage:   http.StatusBadRequest,
	ValidationInvalidExport: http.StatusBadRequest,
	SessionInvalidID:        http.StatusBadRequest,

	SessionNotFound:     http.StatusNotFound,
	SystemRouteNotFound: http.StatusNotFound,

	QueryInProgress: http.StatusConflict,

	SystemRateLimitExceeded: http.StatusTooManyRequests,

	// the source answered, but with records that cannot be used
	QueryMalformedRecord: http.StatusBadGateway,

	QueryFetchFailed:         http.StatusServiceUnavailable,
	SessionLimitReached:      http.StatusServiceUnavailable,
	SystemServiceUnavailable: http.StatusServiceUnavailable,

	SystemInternalError:      http.StatusInternalServerError,
	SystemDatabaseError:      http.StatusInternalServerError,
	SystemConfigurationError: http.StatusInternalServerError,
	SystemUnexpectedError:    http.StatusInternalServerError,
	QueryExportFailed:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for code; unknown codes map to 500
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether the same request may succeed if repeated unchanged
func IsRetryable(code ErrorCode) bool {
	switch code {
	case QueryFetchFailed, QueryInProgress, SessionLimitReached, SystemRateLimitExceeded, SystemServiceUnavailable:
		return true
	default:
		return false
	}
}

// GetHTTPStatus returns the HTTP status for the response's code
func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}

// Retryable reports whether the response's code is retryable
func (er *ErrorResponse) Retryable() bool {
	return IsRetryable(ErrorCode(er.Error.Code))
}

func (er *ErrorResponse) String() string {
	return fmt.Sprintf("[%s] %s (trace: %s)", er.Error.Code, er.Error.Message, er.Error.TraceID)
}
