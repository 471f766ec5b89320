package errors

const (
	HttpInternalError          = "internal_error"
	HttpInvalidJsonError       = "invalid_json"
	HttpColumnNotFoundError    = "column_not_found"
	HttpValidationError        = "validation_failed"
	HttpInvalidDtypeError      = "invalid_dtype"
	HttpInvalidDurationError   = "invalid_duration"
	HttpInvalidTimezoneError   = "invalid_timezone"
	HttpAmbiguousTimeError     = "ambiguous_time"
	HttpNonexistentTimeError   = "nonexistent_time"
	HttpUnsupportedWindowError = "unsupported_window"
)

// ErrorResponse is the error response body for engine API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
