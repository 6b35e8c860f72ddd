package posts

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the business logic interface for posts
type Service interface {
	// CreatePost validates the request and stores a new open post.
	// The returned post carries the store-assigned ID and timestamps.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// FindNearby returns open posts within the requested distance, newest first
	FindNearby(ctx context.Context, req NearbyRequest) ([]*Post, error)

	// GetPost returns a single post regardless of status
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)

	// UpdateStatus moves a post to a new status on behalf of its creator
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Post, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a new post and fills in ID, CreatedAt and UpdatedAt.
	// The spatial index on location is maintained by the database.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindNearby returns open posts whose location lies within
	// q.MaxDistanceMeters of (q.Lng, q.Lat) on a sphere, ordered by
	// created_at descending.
	FindNearby(ctx context.Context, q NearbyQuery) ([]*Post, error)

	// UpdateStatus sets status to `to` only if the current status is `from`.
	// Returns ErrStatusConflict when the row exists but its status is no longer `from`.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Post, error)
}
