package user

import (
	"errors"
	"log/slog"
	"net/http"

	"lostfound/internal/api/handlers"
	"lostfound/internal/core/users"
)

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		handlers.WriteError(w, http.StatusNotFound, "User has not been synced yet")

	case errors.Is(err, users.ErrInvalidIdentity):
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")

	default:
		slog.Error("unexpected error in user handler",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
