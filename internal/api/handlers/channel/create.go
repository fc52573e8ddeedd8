package channel

import (
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/channels"
)

// CreateHandler handles channel creation
type CreateHandler struct {
	service       channels.Service
	maxImageBytes int64
}

// NewCreateHandler creates a new create channel handler
func NewCreateHandler(service channels.Service, maxImageBytes int64) *CreateHandler {
	return &CreateHandler{service: service, maxImageBytes: maxImageBytes}
}

// HandleCreate creates the authenticated user's channel
// POST /api/channels/create-channel
//
// Multipart fields: name, description, profileImage
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := handlers.ParseForm(w, r, h.maxImageBytes+(1<<20)); err != nil {
		writeFormError(w, err)
		return
	}

	image, err := handlers.FormFile(r, "profileImage", h.maxImageBytes)
	if err != nil {
		writeFormError(w, err)
		return
	}

	channel, err := h.service.CreateChannel(r.Context(), userID, channels.CreateChannelRequest{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		ProfileImage: image,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, channel)
}
