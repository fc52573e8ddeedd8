package channels

import (
	"errors"
	"fmt"

	"Vidora/internal/validation"
)

// Domain errors for channels
var (
	// ErrChannelNotFound is returned when a channel doesn't exist
	ErrChannelNotFound = errors.New("channel not found")

	// ErrChannelAlreadyExists is returned when the user already owns a channel
	ErrChannelAlreadyExists = errors.New("channel already exists")

	// ErrNameTaken is returned when another channel uses the name
	ErrNameTaken = errors.New("channel name is already taken")

	// ErrHandleTaken is returned when another channel uses the handle
	ErrHandleTaken = errors.New("handle already taken")

	// ErrInvalidHandle is returned when a handle is not a lowercase slug
	ErrInvalidHandle = errors.New("invalid channel handle format")

	// ErrUnauthorized is returned when the actor does not own the channel
	ErrUnauthorized = errors.New("unauthorized: not your channel")

	// ErrCannotSubscribeOwnChannel is returned when an owner subscribes to their own channel
	ErrCannotSubscribeOwnChannel = errors.New("cannot subscribe to your own channel")

	// ErrNoChannel is returned when the user has not created a channel yet
	ErrNoChannel = errors.New("user has no channel")
)

// ValidationError wraps input validation errors with field details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}

// IsConflict checks if error is a conflict error (duplicate)
func IsConflict(err error) bool {
	return errors.Is(err, ErrChannelAlreadyExists) ||
		errors.Is(err, ErrNameTaken) ||
		errors.Is(err, ErrHandleTaken)
}

// IsForbidden checks if the actor lacks the required relationship to the channel
func IsForbidden(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	var fieldErr *validation.Error
	return errors.As(err, &valErr) ||
		errors.As(err, &fieldErr) ||
		errors.Is(err, ErrInvalidHandle) ||
		errors.Is(err, ErrCannotSubscribeOwnChannel) ||
		errors.Is(err, ErrNoChannel)
}
