package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers"
	"Vidora/internal/core/channels"
)

// SubscribeHandler handles subscribing and unsubscribing
type SubscribeHandler struct {
	service channels.Service
}

// NewSubscribeHandler creates a new subscribe handler
func NewSubscribeHandler(service channels.Service) *SubscribeHandler {
	return &SubscribeHandler{service: service}
}

// HandleSubscribe subscribes the user to a channel
// POST /api/channels/{channelId}/subscribe
//
// Response: { "subscribed": true, "totalSubscribers": n }
func (h *SubscribeHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	state, err := h.service.Subscribe(r.Context(), userID, chi.URLParam(r, "channelId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, state)
}

// HandleUnsubscribe removes the user's subscription
// DELETE /api/channels/{channelId}/subscribe
func (h *SubscribeHandler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	state, err := h.service.Unsubscribe(r.Context(), userID, chi.URLParam(r, "channelId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, state)
}

// HandleMySubscriptions lists the user's subscribed channels with their videos
// GET /api/channels/me/subscriptions
func (h *SubscribeHandler) HandleMySubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	subs, err := h.service.MySubscriptions(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, subs)
}
