package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/videos"
)

// UpdateHandler handles metadata edits and deletion by the uploader
type UpdateHandler struct {
	service       videos.Service
	maxImageBytes int64
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service videos.Service, maxImageBytes int64) *UpdateHandler {
	return &UpdateHandler{service: service, maxImageBytes: maxImageBytes}
}

// HandleUpdate applies a partial metadata update
// PUT /api/videos/{videoId}
//
// Fields: title, description, visibility, isAgeRestricted, tags, categories, thumbnailImage
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := handlers.ParseForm(w, r, h.maxImageBytes+(1<<20)); err != nil {
		writeFormError(w, err)
		return
	}

	req := videos.UpdateRequest{
		Title:       handlers.OptionalString(r, "title"),
		Description: handlers.OptionalString(r, "description"),
		Tags:        handlers.OptionalList(r, "tags"),
		Categories:  handlers.OptionalList(r, "categories"),
	}

	if v := handlers.OptionalString(r, "visibility"); v != nil {
		visibility := videos.Visibility(*v)
		req.Visibility = &visibility
	}
	if v := handlers.OptionalString(r, "isAgeRestricted"); v != nil {
		restricted, err := handlers.ParseBool(*v)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "isAgeRestricted must be a boolean")
			return
		}
		req.IsAgeRestricted = &restricted
	}

	var err error
	if req.ThumbnailImage, err = handlers.FormFile(r, "thumbnailImage", h.maxImageBytes); err != nil {
		writeFormError(w, err)
		return
	}

	video, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "videoId"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, video)
}

// HandleDelete deletes a video
// DELETE /api/videos/{videoId}
func (h *UpdateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "videoId")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Video deleted successfully"})
}
