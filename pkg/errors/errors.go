package errors

import (
	"fmt"
	"net/http"
)

// ErrorType classifies the application errors surfaced to clients.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeAuthorization  ErrorType = "authorization"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeAdmission      ErrorType = "admission"
	ErrorTypeDecryption     ErrorType = "decryption"
	ErrorTypeInternal       ErrorType = "internal"
)

// AppError is a structured application error with an HTTP mapping.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidationError reports missing or malformed input.
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewAuthenticationError reports a missing or invalid credential.
func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewAuthorizationError reports an authenticated caller lacking a role.
func NewAuthorizationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthorization,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewNotFoundError reports an unknown user or candidate.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewAdmissionError reports a vote rejected by the admission rules
// (window not open, window closed, already voted). These are expected
// outcomes, not faults.
func NewAdmissionError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAdmission,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewDecryptionError reports an undecryptable vote payload. The message
// is always generic; cipher internals are never leaked to clients.
func NewDecryptionError(internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeDecryption,
		Message:    "Could not read vote payload, please reconnect and try again!",
		StatusCode: http.StatusBadRequest,
		Internal:   internal,
	}
}

// NewInternalError reports a store or infrastructure failure.
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// ErrorResponse is the JSON error envelope written by HTTP handlers.
type ErrorResponse struct {
	Error struct {
		Type      ErrorType              `json:"type"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details,omitempty"`
		RequestID string                 `json:"request_id,omitempty"`
		Timestamp string                 `json:"timestamp"`
	} `json:"error"`
}
