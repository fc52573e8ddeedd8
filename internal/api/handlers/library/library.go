// Package library provides HTTP handlers for watch history, saved and downloaded videos.
package library

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/library"
	"Vidora/internal/core/videos"
)

// Handler serves the library endpoints
type Handler struct {
	service library.Service
}

// NewHandler creates a new library handler
func NewHandler(service library.Service) *Handler {
	return &Handler{service: service}
}

// HandleWatch moves a video to the front of the watch history
// POST /api/videos/{videoId}/watch
func (h *Handler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Watch(r.Context(), userID, chi.URLParam(r, "videoId")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Added to watch history"})
}

// HandleSave toggles the saved state of a video
// POST /api/videos/{videoId}/save
//
// Response: { "saved": bool }
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleSave(r.Context(), userID, chi.URLParam(r, "videoId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleDownload records a download
// POST /api/videos/{videoId}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.RecordDownload(r.Context(), userID, chi.URLParam(r, "videoId")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Download recorded"})
}

// HandleHistory lists watched videos most recent first
// GET /api/videos/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.History)
}

// HandleSaved lists saved videos
// GET /api/videos/saved
func (h *Handler) HandleSaved(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.Saved)
}

// HandleDownloads lists downloaded videos
// GET /api/videos/downloads
func (h *Handler) HandleDownloads(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.Downloads)
}

type listFunc func(ctx context.Context, userID string) ([]*videos.Video, error)

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch listFunc) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := fetch(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"videos": list})
}

// handleServiceError converts library service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case videos.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "VideoNotFound", "Video not found")
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
