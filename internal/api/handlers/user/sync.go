package user

import (
	"net/http"

	"lostfound/internal/api/handlers"
	"lostfound/internal/core/users"
)

// SyncHandler creates the caller's local profile on first use
type SyncHandler struct {
	userService users.UserService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(userService users.UserService) *SyncHandler {
	return &SyncHandler{userService: userService}
}

// HandleSync handles POST /api/users/sync
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.SyncUser(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if user == nil {
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, user)
}
