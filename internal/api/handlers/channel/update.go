package channel

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/channels"
)

// UpdateHandler handles channel updates by the owner
type UpdateHandler struct {
	service       channels.Service
	maxImageBytes int64
}

// NewUpdateHandler creates a new update channel handler
func NewUpdateHandler(service channels.Service, maxImageBytes int64) *UpdateHandler {
	return &UpdateHandler{service: service, maxImageBytes: maxImageBytes}
}

// HandleUpdate applies a partial update; absent fields are left unchanged
// PUT /api/channels/{channelId}
//
// Multipart fields: name, description, tags, location, contactEmail,
// socialLinks (JSON object), handleChannelName, profileImage, bannerImage
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := handlers.ParseForm(w, r, 2*h.maxImageBytes+(1<<20)); err != nil {
		writeFormError(w, err)
		return
	}

	req := channels.UpdateChannelRequest{
		Name:         handlers.OptionalString(r, "name"),
		Description:  handlers.OptionalString(r, "description"),
		Tags:         handlers.OptionalList(r, "tags"),
		Location:     handlers.OptionalString(r, "location"),
		ContactEmail: handlers.OptionalString(r, "contactEmail"),
		Handle:       handlers.OptionalString(r, "handleChannelName"),
	}

	if raw := r.FormValue("socialLinks"); raw != "" {
		var links channels.SocialLinks
		if err := json.Unmarshal([]byte(raw), &links); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "socialLinks must be a JSON object")
			return
		}
		req.SocialLinks = &links
	}

	var err error
	if req.ProfileImage, err = handlers.FormFile(r, "profileImage", h.maxImageBytes); err != nil {
		writeFormError(w, err)
		return
	}
	if req.BannerImage, err = handlers.FormFile(r, "bannerImage", h.maxImageBytes); err != nil {
		writeFormError(w, err)
		return
	}

	channel, err := h.service.UpdateChannel(r.Context(), userID, chi.URLParam(r, "channelId"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, channel)
}
