package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/videos"
)

// GetHandler serves a single video
type GetHandler struct {
	service videos.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service videos.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet returns a video for playback, or for editing when edit=true
// GET /api/videos/{videoId}?edit=true
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	edit := r.URL.Query().Get("edit") == "true"

	video, err := h.service.Get(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "videoId"), edit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, video)
}
