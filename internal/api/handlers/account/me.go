package account

import (
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/users"
)

// MeHandler returns the authenticated user's profile
type MeHandler struct {
	service users.Service
}

// NewMeHandler creates a new me handler
func NewMeHandler(service users.Service) *MeHandler {
	return &MeHandler{service: service}
}

// HandleMe returns { "user": {...} } including the owned channel id
// GET /api/me
func (h *MeHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
