package channel

import (
	"errors"
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/channels"
)

// handleServiceError converts channel service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case channels.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "ChannelNotFound", "Channel not found")
	case channels.IsConflict(err):
		if errors.Is(err, channels.ErrHandleTaken) {
			handlers.WriteError(w, http.StatusConflict, "HandleTaken", "Channel handle is already taken")
		} else {
			handlers.WriteError(w, http.StatusConflict, "AlreadyExists", err.Error())
		}
	case channels.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "You do not have permission to modify this channel")
	case channels.IsValidationError(err):
		handlers.WriteValidationError(w, err)
	default:
		handlers.WriteUnexpectedError(w, r, err)
	}
}

func writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, handlers.ErrFileTooLarge) {
		handlers.WriteError(w, http.StatusRequestEntityTooLarge, "PayloadTooLarge", err.Error())
		return
	}
	handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return "", false
	}
	return userID, true
}
