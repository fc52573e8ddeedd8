package account

import (
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/users"
)

// ResetHandler handles mailed password reset codes
type ResetHandler struct {
	service users.Service
}

// NewResetHandler creates a new password reset handler
func NewResetHandler(service users.Service) *ResetHandler {
	return &ResetHandler{service: service}
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleResetRequest mails a reset code to the account's address
// POST /api/reset-request
//
// Request body: { "email": "..." }
func (h *ResetHandler) HandleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req users.PasswordResetRequest
	if err := handlers.DecodeJSON(w, r, 1<<20, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, messageResponse{Message: "Reset code sent successfully!"})
}

// HandleResetPassword redeems a reset code for a new password
// POST /api/reset-password
//
// Request body: { "email": "...", "code": "123456", "newPassword": "..." }
func (h *ResetHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req users.ResetPasswordRequest
	if err := handlers.DecodeJSON(w, r, 1<<20, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, messageResponse{Message: "Password has been changed successfully!"})
}
