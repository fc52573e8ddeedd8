package account

import (
	"errors"
	"mime"
	"net/http"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/users"
)

// SignupHandler handles account creation
type SignupHandler struct {
	service       users.Service
	maxImageBytes int64
}

// NewSignupHandler creates a new signup handler
func NewSignupHandler(service users.Service, maxImageBytes int64) *SignupHandler {
	return &SignupHandler{service: service, maxImageBytes: maxImageBytes}
}

// HandleSignup creates an account and returns a session token
// POST /api/signup
//
// Accepts multipart (with optional profileImage), urlencoded or JSON bodies.
func (h *SignupHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req users.SignupRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := handlers.DecodeJSON(w, r, 1<<20, &req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
			return
		}
	} else {
		if err := handlers.ParseForm(w, r, h.maxImageBytes+(1<<20)); err != nil {
			writeFormError(w, err)
			return
		}

		req.FirstName = r.FormValue("firstName")
		req.LastName = r.FormValue("lastName")
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")

		image, err := handlers.FormFile(r, "profileImage", h.maxImageBytes)
		if err != nil {
			writeFormError(w, err)
			return
		}
		req.ProfileImage = image
	}

	result, err := h.service.Signup(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, result)
}

func writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, handlers.ErrFileTooLarge) {
		handlers.WriteError(w, http.StatusRequestEntityTooLarge, "PayloadTooLarge", err.Error())
		return
	}
	handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
}
