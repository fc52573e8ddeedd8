package images

import "errors"

var (
	// ErrInvalidPreset is returned when a preset name is not found in the preset registry.
	ErrInvalidPreset = errors.New("invalid image preset")

	// ErrUnsupportedFormat is returned when the source image format cannot be processed.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrImageTooLarge is returned when the source image exceeds the maximum allowed size.
	ErrImageTooLarge = errors.New("source image exceeds size limit")

	// ErrProcessingFailed is returned when image processing fails for any reason.
	ErrProcessingFailed = errors.New("image processing failed")
)

// IsValidationError reports whether the error was caused by the uploaded image itself
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrImageTooLarge)
}
