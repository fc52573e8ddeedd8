package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/channels"
)

// GetPublicHandler serves the public projection of a channel
type GetPublicHandler struct {
	service channels.Service
}

// NewGetPublicHandler creates a new public channel handler
func NewGetPublicHandler(service channels.Service) *GetPublicHandler {
	return &GetPublicHandler{service: service}
}

// HandleGetPublic resolves a channel by id or handle
// GET /api/channels/public/{identifier}
func (h *GetPublicHandler) HandleGetPublic(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if identifier == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "channel identifier is required")
		return
	}

	channel, err := h.service.GetPublicChannel(r.Context(), identifier)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, channel)
}
