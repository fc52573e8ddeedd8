// Package comments provides HTTP handlers for video comments.
package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/comments"
)

// maxCommentBody bounds the JSON body of a new comment
const maxCommentBody = 256 << 10

// Handler serves the comment endpoints of a video
type Handler struct {
	service comments.Service
}

// NewHandler creates a new comments handler
func NewHandler(service comments.Service) *Handler {
	return &Handler{service: service}
}

// HandleAdd adds a comment to a video
// POST /api/videos/{videoId}/comment
//
// Request body: { "text": "..." }
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := handlers.DecodeJSON(w, r, maxCommentBody, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, chi.URLParam(r, "videoId"), req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, comment)
}

// HandleList returns a video's comments oldest first
// GET /api/videos/{videoId}/comments
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListComments(r.Context(), chi.URLParam(r, "videoId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleDelete deletes a comment; allowed for its author and the video uploader
// DELETE /api/videos/{videoId}/comments/{commentId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteComment(r.Context(), userID, chi.URLParam(r, "videoId"), chi.URLParam(r, "commentId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}
