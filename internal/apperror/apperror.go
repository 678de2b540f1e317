package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("Validation Error")
	ErrUnavailable = errors.New("unavailable")
	ErrStore       = errors.New("store failure")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unavailable returns an AppError for a failed call to an external service.
// The metadata fetcher uses this for transport errors and non-2xx responses;
// callers treat it as "could not add the movie right now", never as a crash.
func Unavailable(service, message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("%s: %s", service, message),
	}
}

// StoreFailed wraps a database error so callers can tell transaction
// failures apart from not-found and validation outcomes without string
// parsing. The wrapped error keeps the driver detail for logs.
func StoreFailed(op string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrStore, op, err),
		Message: fmt.Sprintf("storage operation %q failed", op),
	}
}
