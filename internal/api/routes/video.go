package routes

import (
	"github.com/go-chi/chi/v5"

	commenthandlers "Vidora/internal/api/handlers/comments"
	libraryhandlers "Vidora/internal/api/handlers/library"
	"Vidora/internal/api/handlers/video"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/comments"
	"Vidora/internal/core/library"
	"Vidora/internal/core/videos"
)

// VideoServices groups the services behind /api/videos
type VideoServices struct {
	Videos   videos.Service
	Comments comments.Service
	Library  library.Service
}

// RegisterVideoRoutes registers video, engagement, comment and library endpoints under /api/videos
func RegisterVideoRoutes(r chi.Router, services VideoServices, authMiddleware *middleware.AuthMiddleware, limits video.Limits) {
	uploadHandler := video.NewUploadHandler(services.Videos, limits)
	listHandler := video.NewListHandler(services.Videos)
	getHandler := video.NewGetHandler(services.Videos)
	updateHandler := video.NewUpdateHandler(services.Videos, limits.MaxImageBytes)
	engagementHandler := video.NewEngagementHandler(services.Videos)
	commentHandler := commenthandlers.NewHandler(services.Comments)
	libraryHandler := libraryhandlers.NewHandler(services.Library)

	r.Route("/api/videos", func(r chi.Router) {
		// Public reads; the viewer is identified when a token is present
		r.With(authMiddleware.OptionalAuth).Get("/{videoId}", getHandler.HandleGet)
		r.Get("/{videoId}/comments", commentHandler.HandleList)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Post("/upload", uploadHandler.HandleUpload)
			r.Get("/", listHandler.HandleList)

			r.Get("/history", libraryHandler.HandleHistory)
			r.Get("/saved", libraryHandler.HandleSaved)
			r.Get("/downloads", libraryHandler.HandleDownloads)

			r.Put("/{videoId}", updateHandler.HandleUpdate)
			r.Delete("/{videoId}", updateHandler.HandleDelete)

			r.Post("/{videoId}/view", engagementHandler.HandleView)
			r.Post("/{videoId}/like", engagementHandler.HandleLike)
			r.Post("/{videoId}/dislike", engagementHandler.HandleDislike)

			r.Post("/{videoId}/comment", commentHandler.HandleAdd)
			r.Delete("/{videoId}/comments/{commentId}", commentHandler.HandleDelete)

			r.Post("/{videoId}/watch", libraryHandler.HandleWatch)
			r.Post("/{videoId}/save", libraryHandler.HandleSave)
			r.Post("/{videoId}/download", libraryHandler.HandleDownload)
		})
	})
}
