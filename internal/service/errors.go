package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/srs"
	"github.com/phrazzld/scholar-api/internal/store"
)

// Service errors callers may check with errors.Is. The API layer maps them
// to HTTP status codes.
var (
	// ErrNotOwned indicates a resource belongs to a different user (403).
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrTaskAlreadyCompleted rejects completing a task twice (409).
	ErrTaskAlreadyCompleted = errors.New("task is already completed")

	// ErrCompletionRequired rejects setting the completed status directly;
	// tasks are completed through CompleteTask so the completion is scored
	// (400).
	ErrCompletionRequired = errors.New("tasks can only be completed through the complete action")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login responses do not reveal which accounts exist (401).
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ServiceError adds the failing operation to an unexpected error.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// isExpected reports whether err is a condition the caller caused and the
// API reports as a client error, so it is passed through unwrapped.
func isExpected(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrTaskAlreadyCompleted) ||
		errors.Is(err, ErrCompletionRequired) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, srs.ErrNotAReviewItem) ||
		errors.Is(err, srs.ErrInvalidDifficultyRating)
}
