package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_005"
	ValidationInvalidCredit ErrorCode = "VALIDATION_006"
	ValidationInvalidSort   ErrorCode = "VALIDATION_007"
	ValidationInvalidPage   ErrorCode = "VALIDATION_008"
	ValidationInvalidExport ErrorCode = "VALIDATION_009"
)

// Query error codes (QUERY_*)
const (
	QueryFetchFailed     ErrorCode = "QUERY_001"
	QueryMalformedRecord ErrorCode = "QUERY_002"
	QueryInProgress      ErrorCode = "QUERY_003"
	QueryExportFailed    ErrorCode = "QUERY_004"
)

// Session error codes (SESSION_*)
const (
	SessionNotFound     ErrorCode = "SESSION_001"
	SessionInvalidID    ErrorCode = "SESSION_002"
	SessionLimitReached ErrorCode = "SESSION_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format",
	ValidationInvalidCredit: "Credit bound must be a number",
	ValidationInvalidSort:   "Invalid sort field or direction",
	ValidationInvalidPage:   "Page must be a positive integer",
	ValidationInvalidExport: "Unsupported export format",

	// Query errors
	QueryFetchFailed:     "An error occurred while fetching the data. Please try again.",
	QueryMalformedRecord: "The data source returned a malformed transaction record",
	QueryInProgress:      "A query is already in progress for this session",
	QueryExportFailed:    "Failed to export query results",

	// Session errors
	SessionNotFound:     "Query session not found",
	SessionInvalidID:    "Invalid query session ID format",
	SessionLimitReached: "Too many open query sessions. Please try again later",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "The requested resource does not exist",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
