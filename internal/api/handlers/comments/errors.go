package comments

import (
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/comments"
	"Vidora/internal/core/videos"
)

// handleServiceError converts comment service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case videos.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "VideoNotFound", "Video not found")
	case comments.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "CommentNotFound", "Comment not found")
	case comments.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized", "Not authorized to delete this comment")
	case comments.IsValidationError(err):
		handlers.WriteValidationError(w, err)
	default:
		handlers.WriteUnexpectedError(w, r, err)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return "", false
	}
	return userID, true
}
