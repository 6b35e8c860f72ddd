package routes

import (
	"lostfound/internal/api/handlers/post"
	"lostfound/internal/api/middleware"
	"lostfound/internal/core/posts"
	"lostfound/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the /api/posts endpoints on the router
func RegisterPostRoutes(r chi.Router, service posts.Service, userService users.UserService, authMiddleware *middleware.SessionAuthMiddleware) {
	createHandler := post.NewCreateHandler(service, userService)
	listHandler := post.NewListHandler(service)
	getHandler := post.NewGetHandler(service)
	statusHandler := post.NewUpdateStatusHandler(service)

	r.Route("/api/posts", func(r chi.Router) {
		// Public reads
		r.Get("/", listHandler.HandleNearby)
		r.Get("/{id}", getHandler.HandleGet)

		// Writes require a session
		r.With(authMiddleware.RequireAuth).Post("/", createHandler.HandleCreate)
		r.With(authMiddleware.RequireAuth).Patch("/{id}/status", statusHandler.HandleUpdateStatus)
	})
}
