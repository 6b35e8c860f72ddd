package user

import (
	"net/http"

	"lostfound/internal/api/handlers"
	"lostfound/internal/api/middleware"
	"lostfound/internal/core/users"
)

// MeHandler returns the caller's stored profile
type MeHandler struct {
	userService users.UserService
}

// NewMeHandler creates a new profile handler
func NewMeHandler(userService users.UserService) *MeHandler {
	return &MeHandler{userService: userService}
}

// HandleMe handles GET /api/users/me
func (h *MeHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetUserByClerkID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, user)
}
