package video

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/videos"
)

// Limits bounds uploaded file sizes. Timeout replaces the server's read and
// write deadlines for the upload request so large bodies are not cut off.
type Limits struct {
	MaxVideoBytes int64
	MaxImageBytes int64
	Timeout       time.Duration
}

// UploadHandler handles video uploads
type UploadHandler struct {
	service videos.Service
	limits  Limits
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service videos.Service, limits Limits) *UploadHandler {
	return &UploadHandler{service: service, limits: limits}
}

// HandleUpload stores a video in the uploader's channel
// POST /api/videos/upload
//
// Multipart fields: title, description, visibility, categories, tags,
// isAgeRestricted, videoFile, thumbnailImage
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	extendDeadlines(w, h.limits.Timeout)

	if err := handlers.ParseForm(w, r, h.limits.MaxVideoBytes+h.limits.MaxImageBytes+(1<<20)); err != nil {
		writeFormError(w, err)
		return
	}

	ageRestricted, err := handlers.ParseBool(r.FormValue("isAgeRestricted"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "isAgeRestricted must be a boolean")
		return
	}

	req := videos.UploadRequest{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		Visibility:      videos.Visibility(r.FormValue("visibility")),
		Categories:      handlers.FormList(r.FormValue("categories")),
		Tags:            handlers.FormList(r.FormValue("tags")),
		IsAgeRestricted: ageRestricted,
	}

	if req.VideoFile, err = handlers.FormFile(r, "videoFile", h.limits.MaxVideoBytes); err != nil {
		writeFormError(w, err)
		return
	}
	if req.ThumbnailImage, err = handlers.FormFile(r, "thumbnailImage", h.limits.MaxImageBytes); err != nil {
		writeFormError(w, err)
		return
	}

	video, err := h.service.Upload(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, video)
}

// extendDeadlines pushes the connection deadlines out to timeout from now.
// Writers that cannot set deadlines keep the server defaults.
func extendDeadlines(w http.ResponseWriter, timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	deadline := time.Now().Add(timeout)
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Warn("failed to extend upload read deadline", "error", err)
	}
	if err := rc.SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Warn("failed to extend upload write deadline", "error", err)
	}
}
