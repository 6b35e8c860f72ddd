package post

import (
	"net/http"
	"net/url"
	"strconv"

	"lostfound/internal/api/handlers"
	"lostfound/internal/core/posts"
)

// ListHandler handles proximity queries
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleNearby handles GET /api/posts?lat=&lng=&maxDistance=
func (h *ListHandler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := floatParam(query, "lat")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "lat must be a number")
		return
	}
	lng, err := floatParam(query, "lng")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "lng must be a number")
		return
	}
	if lat == nil || lng == nil {
		handlers.WriteError(w, http.StatusBadRequest, "Missing lat or lng")
		return
	}

	req := posts.NearbyRequest{Lat: lat, Lng: lng}
	maxDistance, err := floatParam(query, "maxDistance")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "maxDistance must be a number")
		return
	}
	if maxDistance != nil {
		req.MaxDistance = *maxDistance
	}

	result, err := h.service.FindNearby(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// floatParam returns nil when name is absent or empty; "0" is a value
func floatParam(query url.Values, name string) (*float64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
