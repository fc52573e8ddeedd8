package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/videos"
)

// EngagementHandler handles views, likes and dislikes
type EngagementHandler struct {
	service videos.Service
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(service videos.Service) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// HandleView records a deduplicated view
// POST /api/videos/{videoId}/view
//
// Response: { "counted": bool, "views": n }
func (h *EngagementHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.RecordView(r.Context(), userID, chi.URLParam(r, "videoId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleLike toggles the user's like
// POST /api/videos/{videoId}/like
//
// Response: { "likes": n, "dislikes": n, "liked": bool }
func (h *EngagementHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleLike(r.Context(), userID, chi.URLParam(r, "videoId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleDislike toggles the user's dislike
// POST /api/videos/{videoId}/dislike
//
// Response: { "likes": n, "dislikes": n, "disliked": bool }
func (h *EngagementHandler) HandleDislike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleDislike(r.Context(), userID, chi.URLParam(r, "videoId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
