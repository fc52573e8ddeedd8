package account

import (
	"errors"
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/users"
)

// handleServiceError converts account service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case users.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "UserNotFound", "User not found")
	case users.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, "AlreadyExists", "An account with this email already exists")
	case users.IsUnauthorized(err):
		handlers.WriteError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password")
	case users.IsInvalidResetCode(err):
		handlers.WriteError(w, http.StatusUnauthorized, "InvalidResetCode", "Invalid or expired code")
	case errors.Is(err, users.ErrMailUnavailable):
		handlers.WriteError(w, http.StatusServiceUnavailable, "MailUnavailable", "Could not send the reset code, try again later")
	case users.IsValidationError(err):
		handlers.WriteValidationError(w, err)
	default:
		handlers.WriteUnexpectedError(w, r, err)
	}
}
