package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers/files"
	searchhandlers "Vidora/internal/api/handlers/search"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/search"
)

// RegisterSearchRoutes registers GET /api/search
func RegisterSearchRoutes(r chi.Router, service search.Service, authMiddleware *middleware.AuthMiddleware) {
	handler := searchhandlers.NewHandler(service)
	r.With(authMiddleware.OptionalAuth).Get("/api/search", handler.HandleSearch)
}

// RegisterFileRoutes registers the signed URL endpoints under /api/files
func RegisterFileRoutes(r chi.Router, signer files.Signer, authMiddleware *middleware.AuthMiddleware) {
	handler := files.NewSignedURLHandler(signer)

	r.Route("/api/files", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/signed-url", handler.HandleSignedURL)
		r.Post("/signed-url", handler.HandleSignedURL)
	})
}
