package users

import (
	"errors"
	"fmt"

	"Vidora/internal/validation"
)

var (
	// ErrUserNotFound is returned when a user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned on signup with an email that already has an account
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned when email or password don't match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidEmail is returned when the email address is malformed
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidResetCode is returned when no reset is pending, the code is wrong or it expired
	ErrInvalidResetCode = errors.New("invalid or expired code")

	// ErrMailUnavailable is returned when the reset code could not be delivered
	ErrMailUnavailable = errors.New("mail delivery failed")
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
	return errors.Is(err, ErrUserNotFound)
}

// IsConflict checks if error is a conflict error (duplicate)
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}

// IsUnauthorized checks if error is an authentication failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsInvalidResetCode checks if a password reset code was rejected
func IsInvalidResetCode(err error) bool {
	return errors.Is(err, ErrInvalidResetCode)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	var fieldErr *validation.Error
	return errors.As(err, &valErr) || errors.As(err, &fieldErr) || errors.Is(err, ErrInvalidEmail)
}
