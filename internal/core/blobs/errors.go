package blobs

import "errors"

var (
	// ErrInvalidFileURL indicates the URL is not a file of the configured bucket
	ErrInvalidFileURL = errors.New("file URL is not under the configured bucket")

	// ErrEmptyObject indicates an upload with no bytes
	ErrEmptyObject = errors.New("object data is empty")

	// ErrInvalidKey indicates an empty or malformed object key
	ErrInvalidKey = errors.New("invalid object key")

	// ErrStorageUnavailable indicates the remote store failed or the circuit is open.
	// Callers map it to 503 so storage outages are distinguishable from database faults.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// IsValidationError checks if an error is caused by caller input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidFileURL) ||
		errors.Is(err, ErrEmptyObject) ||
		errors.Is(err, ErrInvalidKey)
}
