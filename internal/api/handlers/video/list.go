package video

import (
	"net/http"
	"strconv"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/videos"
)

// ListHandler serves paginated video lists
type ListHandler struct {
	service videos.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service videos.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList lists videos newest first
// GET /api/videos?channelId=&category=&tag=&page=&limit=
//
// Response: { "page": 1, "totalPages": n, "totalVideos": n, "videos": [...] }
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := videos.ListRequest{
		ChannelID: query.Get("channelId"),
		Category:  query.Get("category"),
		Tag:       query.Get("tag"),
	}

	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "page must be a positive integer")
			return
		}
		req.Page = page
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "limit must be a positive integer")
			return
		}
		req.Limit = limit
	}

	page, err := h.service.List(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, page)
}
