package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post is not found by ID
	ErrNotFound = errors.New("post not found")

	// ErrNotAuthenticated is returned when an operation that needs a user has none
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrNotAuthorized is returned when a user changes a post they did not create
	ErrNotAuthorized = errors.New("only the creator of a post can change it")

	// ErrStatusConflict is returned when the status changed between read and update
	ErrStatusConflict = errors.New("post status was changed concurrently")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// InvalidTransitionError is returned when a status change is not allowed
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}

// IsInvalidTransition checks if error is an invalid status transition
func IsInvalidTransition(err error) bool {
	var transErr *InvalidTransitionError
	return errors.As(err, &transErr)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
