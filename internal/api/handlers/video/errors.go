package video

import (
	"errors"
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/videos"
)

// handleServiceError converts video service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case videos.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "VideoNotFound", "Video not found")
	case errors.Is(err, videos.ErrPrivateVideo):
		handlers.WriteError(w, http.StatusForbidden, "PrivateVideo", "This video is private")
	case videos.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "Not authorized to modify this video")
	case videos.IsValidationError(err):
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
