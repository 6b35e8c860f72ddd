package routes

import (
	"lostfound/internal/api/handlers/user"
	"lostfound/internal/api/middleware"
	"lostfound/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterUserRoutes registers the /api/users endpoints on the router
func RegisterUserRoutes(r chi.Router, service users.UserService, authMiddleware *middleware.SessionAuthMiddleware) {
	syncHandler := user.NewSyncHandler(service)
	meHandler := user.NewMeHandler(service)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Post("/sync", syncHandler.HandleSync)
		r.Get("/me", meHandler.HandleMe)
	})
}
