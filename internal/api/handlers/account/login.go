package account

import (
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/users"
)

// LoginHandler handles credential login
type LoginHandler struct {
	service users.Service
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(service users.Service) *LoginHandler {
	return &LoginHandler{service: service}
}

// HandleLogin exchanges email and password for a session token
// POST /api/login
//
// Request body: { "email": "...", "password": "..." }
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req users.LoginRequest
	if err := handlers.DecodeJSON(w, r, 1<<20, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
