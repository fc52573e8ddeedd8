// Package search provides the HTTP handler for channel and video search.
package search

import (
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/search"
)

// Handler serves search requests
type Handler struct {
	service search.Service
}

// NewHandler creates a new search handler
func NewHandler(service search.Service) *Handler {
	return &Handler{service: service}
}

// HandleSearch searches channels and videos
// GET /api/search?query=
//
// Response: { "channel": {...}|null, "channelVideos": [...], "videos": [...] }
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), middleware.GetUserID(r), r.URL.Query().Get("query"))
	if err != nil {
		switch {
		case search.IsValidationError(err):
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		case search.IsNotFound(err):
			handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())
		default:
			handlers.WriteUnexpectedError(w, r, err)
		}
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
