package post

import (
	"log/slog"
	"net/http"

	"lostfound/internal/api/handlers"
	"lostfound/internal/api/middleware"
	"lostfound/internal/core/posts"
	"lostfound/internal/core/users"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service     posts.Service
	userService users.UserService
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service, userService users.UserService) *CreateHandler {
	return &CreateHandler{
		service:     service,
		userService: userService,
	}
}

// HandleCreate handles POST /api/posts
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// Set by RequireAuth; checked again so the handler is safe on its own
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req posts.CreatePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	// Reject bad input before the user sync writes anything
	if err := posts.ValidateCreateRequest(req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	// Make sure the poster has a local profile before the post references them
	user, err := h.userService.SyncUser(r.Context())
	if err != nil {
		slog.Error("failed to sync user before creating post", "user_id", userID, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Author always comes from the session, never from the body
	req.UserID = user.ClerkID

	post, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}
