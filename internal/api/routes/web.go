package routes

import (
	"fmt"

	"lostfound/internal/web"

	"github.com/go-chi/chi/v5"
)

// RegisterWebRoutes registers the browser pages
func RegisterWebRoutes(r chi.Router, publishableKey string) error {
	templates, err := web.NewTemplates()
	if err != nil {
		return fmt.Errorf("failed to load web templates: %w", err)
	}

	handlers := web.NewHandlers(templates, publishableKey)

	r.Get("/", handlers.NearbyHandler)
	r.Get("/posts/new", handlers.CreatePostHandler)
	return nil
}
