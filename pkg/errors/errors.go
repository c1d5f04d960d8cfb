package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors surfaced to views
type ErrorType string

const (
	// ErrorTypeUnauthenticated indicates the action needs a logged-in user
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"

	// ErrorTypeValidation indicates a client-side or backend validation failure
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeNetwork indicates a transport failure (no response received)
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeServer indicates any other non-2xx response
	ErrorTypeServer ErrorType = "SERVER"

	// ErrorTypeConflict indicates an operation was rejected because another is in progress
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal indicates a bug or unexpected client state
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// APIError is the canonical error shape every backend failure is normalized into
type APIError struct {
	Type    ErrorType
	Status  int
	Code    string
	Message string
	Details []string
	Err     error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text that may be shown to an end user.
// Transport and internal failures never leak technical detail.
func (e *APIError) UserMessage() string {
	switch e.Type {
	case ErrorTypeNetwork:
		return "Could not reach the server. Check your connection and try again."
	case ErrorTypeInternal:
		return "Something went wrong."
	case ErrorTypeUnauthenticated:
		if e.Message == "" {
			return "You must log in to do that."
		}
	}
	if e.Message == "" {
		return "The request could not be completed."
	}
	return e.Message
}

// NewUnauthenticatedError creates a new unauthenticated error
func NewUnauthenticatedError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthenticated,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *APIError {
	return &APIError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewNetworkError creates a new transport error
func NewNetworkError(message string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// FromStatus maps an HTTP status onto an error type
func FromStatus(status int) ErrorType {
	switch {
	case status == 401 || status == 403:
		return ErrorTypeUnauthenticated
	case status == 404:
		return ErrorTypeNotFound
	case status == 400 || status == 422:
		return ErrorTypeValidation
	case status == 409:
		return ErrorTypeConflict
	default:
		return ErrorTypeServer
	}
}

// As returns the APIError in err's chain, if any
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsType reports whether err carries an APIError of the given type
func IsType(err error, t ErrorType) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Type == t
}

// UserMessage returns a display-safe message for any error
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := As(err); ok {
		return apiErr.UserMessage()
	}
	return "Something went wrong."
}
