package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidora/internal/api/handlers/account"
	"Vidora/internal/api/middleware"
	"Vidora/internal/core/users"
)

// RegisterAccountRoutes registers signup, login, password reset and the
// current-user endpoint under /api
func RegisterAccountRoutes(r chi.Router, service users.Service, authMiddleware *middleware.AuthMiddleware, maxImageBytes int64) {
	signupHandler := account.NewSignupHandler(service, maxImageBytes)
	loginHandler := account.NewLoginHandler(service)
	meHandler := account.NewMeHandler(service)
	resetHandler := account.NewResetHandler(service)

	r.Post("/api/signup", signupHandler.HandleSignup)
	r.Post("/api/login", loginHandler.HandleLogin)
	r.Post("/api/reset-request", resetHandler.HandleResetRequest)
	r.Post("/api/reset-password", resetHandler.HandleResetPassword)
	r.With(authMiddleware.RequireAuth).Get("/api/me", meHandler.HandleMe)
}
