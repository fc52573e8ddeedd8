package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers/channel"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/channels"
)

// RegisterChannelRoutes registers channel endpoints under /api/channels
func RegisterChannelRoutes(r chi.Router, service channels.Service, authMiddleware *middleware.AuthMiddleware, maxImageBytes int64) {
	createHandler := channel.NewCreateHandler(service, maxImageBytes)
	updateHandler := channel.NewUpdateHandler(service, maxImageBytes)
	getHandler := channel.NewGetPublicHandler(service)
	subscribeHandler := channel.NewSubscribeHandler(service)

	r.Route("/api/channels", func(r chi.Router) {
		// Public
		r.Get("/public/{identifier}", getHandler.HandleGetPublic)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Post("/create-channel", createHandler.HandleCreate)
			r.Get("/me/subscriptions", subscribeHandler.HandleMySubscriptions)
			r.Put("/{channelId}", updateHandler.HandleUpdate)
			r.Post("/{channelId}/subscribe", subscribeHandler.HandleSubscribe)
			r.Delete("/{channelId}/subscribe", subscribeHandler.HandleUnsubscribe)
		})
	})
}
