package posts

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxDistance is used when a nearby search gives no usable distance (meters)
const DefaultMaxDistance = 5000.0

type postService struct {
	repo Repository
}

// NewPostService creates a new post service
func NewPostService(repo Repository) Service {
	return &postService{repo: repo}
}

// CreatePost creates a new post
// Flow:
// 1. Validate input (before touching the store)
// 2. Build the post with status forced to open
// 3. Insert and return the stored row
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrNotAuthenticated
	}

	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}

	post := &Post{
		Type:          Type(strings.TrimSpace(req.Type)),
		Category:      strings.TrimSpace(req.Category),
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		ImageURL:      trimOptional(req.ImageURL),
		Reward:        req.Reward,
		ContactMethod: trimOptional(req.ContactMethod),
		UserID:        req.UserID,
		Status:        StatusOpen,
		Location: Location{
			Name:        trimOptional(req.Location.Name),
			Type:        GeoJSONPoint,
			Coordinates: [2]float64{req.Location.Coordinates[0], req.Location.Coordinates[1]},
		},
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created",
		"id", post.ID,
		"type", post.Type,
		"user_id", post.UserID,
	)

	return post, nil
}

// FindNearby returns open posts around a point, newest first
func (s *postService) FindNearby(ctx context.Context, req NearbyRequest) ([]*Post, error) {
	if req.Lat == nil {
		return nil, NewValidationError("lat", "latitude is required")
	}
	if req.Lng == nil {
		return nil, NewValidationError("lng", "longitude is required")
	}
	if err := validatePoint(*req.Lng, *req.Lat, "lng", "lat"); err != nil {
		return nil, err
	}

	maxDistance := req.MaxDistance
	if math.IsNaN(maxDistance) || maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	result, err := s.repo.FindNearby(ctx, NearbyQuery{
		Lng:               *req.Lng,
		Lat:               *req.Lat,
		MaxDistanceMeters: maxDistance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby posts: %w", err)
	}
	if result == nil {
		result = []*Post{}
	}
	return result, nil
}

// GetPost retrieves a post by ID
func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, NewValidationError("id", "post ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus changes a post's status
// Only the creator may change it, and only along allowed transitions
func (s *postService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Post, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrNotAuthenticated
	}
	if req.ID == uuid.Nil {
		return nil, NewValidationError("id", "post ID is required")
	}

	next, err := ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if current.UserID != req.UserID {
		slog.Warn("status change rejected: not the creator",
			"post_id", req.ID,
			"user_id", req.UserID,
		)
		return nil, ErrNotAuthorized
	}

	if !current.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: current.Status, To: next}
	}

	updated, err := s.repo.UpdateStatus(ctx, req.ID, current.Status, next)
	if err != nil {
		return nil, err
	}

	slog.Info("post status changed",
		"id", updated.ID,
		"from", current.Status,
		"to", updated.Status,
	)

	return updated, nil
}

// ValidateCreateRequest checks the caller-supplied fields of a create request.
// It has no side effects, so handlers can run it before touching any store.
func ValidateCreateRequest(req CreatePostRequest) error {
	postType := strings.TrimSpace(req.Type)
	if postType == "" {
		return NewValidationError("type", "type is required")
	}
	if !Type(postType).Valid() {
		return NewValidationError("type", "type must be 'lost' or 'found'")
	}

	if strings.TrimSpace(req.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return NewValidationError("category", "category is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return NewValidationError("description", "description is required")
	}

	if req.Location == nil || req.Location.Coordinates == nil {
		return NewValidationError("location.coordinates", "coordinates are required")
	}
	if len(req.Location.Coordinates) != 2 {
		return NewValidationError("location.coordinates", "coordinates must be [longitude, latitude]")
	}
	if err := validatePoint(req.Location.Coordinates[0], req.Location.Coordinates[1],
		"location.coordinates", "location.coordinates"); err != nil {
		return err
	}

	if req.Reward != nil {
		if math.IsNaN(*req.Reward) || math.IsInf(*req.Reward, 0) || *req.Reward < 0 {
			return NewValidationError("reward", "reward must be a non-negative number")
		}
	}

	return nil
}

// validatePoint checks that a longitude/latitude pair is finite and on the globe.
// Exact zero is a valid coordinate (equator / prime meridian).
func validatePoint(lng, lat float64, lngField, latField string) error {
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return NewValidationError(lngField, "longitude must be a finite number")
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return NewValidationError(latField, "latitude must be a finite number")
	}
	if lng < -180 || lng > 180 {
		return NewValidationError(lngField, "longitude must be between -180 and 180")
	}
	if lat < -90 || lat > 90 {
		return NewValidationError(latField, "latitude must be between -90 and 90")
	}
	return nil
}

// trimOptional trims an optional string and drops it when blank
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
