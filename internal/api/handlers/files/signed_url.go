// Package files provides the HTTP handler that signs object storage URLs.
package files

import (
	"context"
	"mime"
	"net/http"
	"strings"
	"time"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/blobs"
)

// Signer produces time-limited URLs for stored files
type Signer interface {
	SignURL(ctx context.Context, fileURL string, ttl time.Duration) (string, error)
}

// SignedURLHandler issues signed download URLs
type SignedURLHandler struct {
	signer Signer
}

// NewSignedURLHandler creates a new signed URL handler
func NewSignedURLHandler(signer Signer) *SignedURLHandler {
	return &SignedURLHandler{signer: signer}
}

// HandleSignedURL returns a signed URL for a file of the configured bucket
// POST /api/files/signed-url  body: { "fileUrl": "..." }
// GET  /api/files/signed-url?fileUrl=...
//
// Response: { "signedUrl": "..." }
func (h *SignedURLHandler) HandleSignedURL(w http.ResponseWriter, r *http.Request) {
	fileURL := r.URL.Query().Get("fileUrl")

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if r.Method == http.MethodPost && mediaType == "application/json" {
		var req struct {
			FileURL string `json:"fileUrl"`
		}
		if err := handlers.DecodeJSON(w, r, 64<<10, &req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
			return
		}
		fileURL = req.FileURL
	}

	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "fileUrl is required")
		return
	}

	signed, err := h.signer.SignURL(r.Context(), fileURL, 0)
	if err != nil {
		if blobs.IsValidationError(err) {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid fileUrl format")
			return
		}
		handlers.WriteUnexpectedError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"signedUrl": signed})
}
