package videos

import (
	"errors"
	"fmt"

	"Vidora/internal/validation"
)

// Domain errors for videos
var (
	// ErrVideoNotFound is returned when a video doesn't exist
	ErrVideoNotFound = errors.New("video not found")

	// ErrPrivateVideo is returned when a non-owner fetches a private video
	ErrPrivateVideo = errors.New("this video is private")

	// ErrNotUploader is returned when someone other than the uploader edits or deletes a video
	ErrNotUploader = errors.New("not authorized to modify this video")

	// ErrNoChannel is returned on upload when the user has not created a channel
	ErrNoChannel = errors.New("user has no channel")

	// ErrVideoFileRequired is returned when an upload carries no video bytes
	ErrVideoFileRequired = errors.New("videoFile is required")

	// ErrCategoryRequired is returned when an upload has no category
	ErrCategoryRequired = errors.New("at least one category is required")

	// ErrInvalidVisibility is returned for a visibility outside public/private/unlisted
	ErrInvalidVisibility = errors.New("invalid visibility value")

	// ErrTitleTooLong is returned when the title exceeds MaxTitleGraphemes
	ErrTitleTooLong = errors.New("title exceeds 100 characters")
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
	return errors.Is(err, ErrVideoNotFound)
}

// IsForbidden checks if the actor lacks the required relationship to the video
func IsForbidden(err error) bool {
	return errors.Is(err, ErrPrivateVideo) || errors.Is(err, ErrNotUploader)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	var fieldErr *validation.Error
	return errors.As(err, &valErr) ||
		errors.As(err, &fieldErr) ||
		errors.Is(err, ErrNoChannel) ||
		errors.Is(err, ErrVideoFileRequired) ||
		errors.Is(err, ErrCategoryRequired) ||
		errors.Is(err, ErrInvalidVisibility) ||
		errors.Is(err, ErrTitleTooLong)
}
