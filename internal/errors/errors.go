package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Business errors
	ErrSeatsExhausted    = errors.New("no available seats")
	ErrDuplicateRequest  = errors.New("rider already has a request for this ride")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPinMismatch       = errors.New("incorrect pin")
	ErrRideNotOpen       = errors.New("ride is no longer open")
	ErrChatClosed        = errors.New("chat is closed for this request")
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common API errors
func NotFound(resource string) *APIError {
	return NewAPIError("not_found", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func BadRequest(message string) *APIError {
	return NewAPIError("bad_request", message, http.StatusBadRequest)
}

func Conflict(message string) *APIError {
	return NewAPIError("conflict", message, http.StatusConflict)
}

func InternalError(message string) *APIError {
	return NewAPIError("internal_error", message, http.StatusInternalServerError)
}

func Unauthorized(message string) *APIError {
	return NewAPIError("unauthorized", message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return NewAPIError("forbidden", message, http.StatusForbidden)
}

func SeatsExhausted() *APIError {
	return NewAPIError("seats_exhausted", "no available seats on this ride", http.StatusConflict)
}

func DuplicateRequest() *APIError {
	return NewAPIError("duplicate_request", "you have already requested this ride", http.StatusConflict)
}

func InvalidTransition(from, to string) *APIError {
	return NewAPIError("invalid_transition", fmt.Sprintf("cannot transition from %s to %s", from, to), http.StatusConflict)
}

func PinMismatch() *APIError {
	return NewAPIError("pin_mismatch", "incorrect pin", http.StatusConflict)
}

func RideNotOpen() *APIError {
	return NewAPIError("ride_not_open", "this ride is no longer open", http.StatusConflict)
}

func ChatClosed() *APIError {
	return NewAPIError("chat_closed", "chat is not active for this request", http.StatusConflict)
}
