package comments

import "errors"

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist on the video
	ErrCommentNotFound = errors.New("comment not found")

	// ErrContentTooLong indicates comment content exceeds 10000 graphemes
	ErrContentTooLong = errors.New("comment content exceeds 10000 graphemes")

	// ErrContentEmpty indicates comment content is empty
	ErrContentEmpty = errors.New("comment text is required")

	// ErrNotAuthorized indicates the user is neither the comment author nor the video uploader
	ErrNotAuthorized = errors.New("not authorized to delete this comment")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound)
}

// IsForbidden checks if the actor lacks permission on the comment
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentTooLong) ||
		errors.Is(err, ErrContentEmpty)
}
