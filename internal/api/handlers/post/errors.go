package post

import (
	"errors"
	"log/slog"
	"net/http"

	"lostfound/internal/api/handlers"
	"lostfound/internal/core/posts"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *posts.ValidationError

	switch {
	case errors.As(err, &valErr):
		handlers.WriteError(w, http.StatusBadRequest, valErr.Message)

	case posts.IsInvalidTransition(err):
		handlers.WriteError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, posts.ErrNotAuthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")

	case errors.Is(err, posts.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, "Only the creator of a post can change its status")

	case posts.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "Post not found")

	case errors.Is(err, posts.ErrStatusConflict):
		handlers.WriteError(w, http.StatusConflict, "Post status was changed by another request; reload and try again")

	default:
		// Don't leak internal error details to clients
		slog.Error("unexpected error in post handler",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
