package post

import (
	"net/http"

	"lostfound/internal/api/handlers"
	"lostfound/internal/api/middleware"
	"lostfound/internal/core/posts"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UpdateStatusHandler handles status changes by a post's creator
type UpdateStatusHandler struct {
	service posts.Service
}

// NewUpdateStatusHandler creates a new status handler
func NewUpdateStatusHandler(service posts.Service) *UpdateStatusHandler {
	return &UpdateStatusHandler{service: service}
}

// HandleUpdateStatus handles PATCH /api/posts/{id}/status
func (h *UpdateStatusHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req posts.UpdateStatusRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	req.UserID = userID

	post, err := h.service.UpdateStatus(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}
