package response

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/petergfitz2/athena-ai-sub000/internal/api/middleware"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Details   string       `json:"details,omitempty"`
	RequestID string       `json:"request_id"`
	Timestamp time.Time    `json:"timestamp"`
	Fields    []FieldError `json:"fields,omitempty"`
}

// FieldError represents a field-level validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnprocessable    = "UNPROCESSABLE_SERIES"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Error sends an error response
func Error(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	ErrorWithDetails(w, r, statusCode, code, message, "")
}

// ErrorWithDetails sends an error response with additional details
func ErrorWithDetails(w http.ResponseWriter, r *http.Request, statusCode int, code, message, details string) {
	body := ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(r),
			Timestamp: time.Now(),
		},
	}

	event := log.Warn()
	if statusCode >= 500 {
		event = log.Error()
	}
	event.
		Str("request_id", body.Error.RequestID).
		Str("error_code", code).
		Str("message", message).
		Str("details", details).
		Int("status", statusCode).
		Msg("API error response")

	write(w, statusCode, body)
}

// ValidationError sends a 400 with field errors
func ValidationError(w http.ResponseWriter, r *http.Request, fields []FieldError) {
	body := ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrCodeValidation,
			Message:   "Request validation failed",
			RequestID: middleware.GetRequestID(r),
			Timestamp: time.Now(),
			Fields:    fields,
		},
	}

	log.Warn().
		Str("request_id", body.Error.RequestID).
		Int("field_count", len(fields)).
		Msg("Validation error")

	write(w, http.StatusBadRequest, body)
}

// BadRequest sends a 400 Bad Request error
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// NotFound sends a 404 Not Found error
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusNotFound, ErrCodeNotFound, message)
}

// Unprocessable sends a 422 for structurally unusable series
func Unprocessable(w http.ResponseWriter, r *http.Request, message string, err error) {
	ErrorWithDetails(w, r, http.StatusUnprocessableEntity, ErrCodeUnprocessable, message, errDetails(err))
}

// Unavailable sends a 503 Service Unavailable error
func Unavailable(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, message)
}

// InternalError sends a 500 Internal Server Error
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r)).
			Msg("Internal server error")
	}
	Error(w, r, http.StatusInternalServerError, ErrCodeInternalServer, "An unexpected error occurred")
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
