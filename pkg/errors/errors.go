package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors for transport-level mapping.
type ErrorType string

const (
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
	ErrorTypeValidation  ErrorType = "VALIDATION"
	ErrorTypeConflict    ErrorType = "CONFLICT"
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeExternal    ErrorType = "EXTERNAL"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

// AppError carries a classification alongside the message and cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// NewUnavailableError marks functionality whose backing provider is not
// configured in this deployment.
func NewUnavailableError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnavailable, Message: message}
}
