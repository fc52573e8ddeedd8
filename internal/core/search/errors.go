package search

import "errors"

var (
	// ErrEmptyQuery is returned when the query is missing or blank
	ErrEmptyQuery = errors.New("missing search query")

	// ErrNoResults is returned when neither a channel nor a video matches
	ErrNoResults = errors.New("no channels or videos found for that query")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoResults)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyQuery)
}
