package dto

import "net/http"

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal          = "ERR_INTERNAL"
	ErrCodeBadRequest        = "ERR_BAD_REQUEST"
	ErrCodeValidation        = "ERR_VALIDATION"
	ErrCodeUnauthorized      = "ERR_UNAUTHORIZED"
	ErrCodeNotFound          = "ERR_NOT_FOUND"
	ErrCodeConflict          = "ERR_CONFLICT"
	ErrCodeNotConfigured     = "ERR_NOT_CONFIGURED"
	ErrCodeAuthUnavailable   = "ERR_AUTH_UNAVAILABLE"
	ErrCodeSyncInProgress    = "ERR_SYNC_IN_PROGRESS"
	ErrCodePlatformFailure   = "ERR_PLATFORM_FAILURE"
	ErrCodePlatformRateLimit = "ERR_PLATFORM_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:          http.StatusInternalServerError,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeNotConfigured:     http.StatusServiceUnavailable,
	ErrCodeAuthUnavailable:   http.StatusBadGateway,
	ErrCodeSyncInProgress:    http.StatusConflict,
	ErrCodePlatformFailure:   http.StatusBadGateway,
	ErrCodePlatformRateLimit: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
