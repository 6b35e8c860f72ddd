package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"lostfound/internal/core/posts"

	"github.com/google/uuid"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// postColumns is the select list shared by every query that returns posts.
// location is stored as geography; ST_X/ST_Y read back longitude/latitude.
const postColumns = `
	id, type, category, title, description, image_url,
	location_name, ST_X(location::geometry), ST_Y(location::geometry),
	user_id, reward, contact_method, status, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new post into the posts table
// The GiST index on location is updated as part of the insert
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (
			type, category, title, description, image_url,
			location_name, location,
			user_id, reward, contact_method, status
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography,
			$9, $10, $11, $12
		)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx, query,
		string(post.Type), post.Category, post.Title, post.Description, post.ImageURL,
		post.Location.Name, post.Location.Lng(), post.Location.Lat(),
		post.UserID, post.Reward, post.ContactMethod, string(post.Status),
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if pqErrorCode(err) == checkViolation {
			return posts.NewValidationError("post", "post violates a table constraint")
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	post.Location.Type = posts.GeoJSONPoint
	return nil
}

// GetByID retrieves a post by its ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}

	return post, nil
}

// FindNearby returns open posts within q.MaxDistanceMeters of the point.
// ST_DWithin with use_spheroid=false measures great-circle distance on a sphere
// and is answered from the GiST index.
func (r *postgresPostRepo) FindNearby(ctx context.Context, q posts.NearbyQuery) ([]*posts.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE status = $1
		  AND ST_DWithin(
		        location,
		        ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography,
		        $4,
		        false
		      )
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query,
		string(posts.StatusOpen), q.Lng, q.Lat, q.MaxDistanceMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby posts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	result := make([]*posts.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		result = append(result, post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return result, nil
}

// UpdateStatus moves a post from one status to another.
// The WHERE clause on the previous status makes concurrent changes lose cleanly.
func (r *postgresPostRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to posts.Status) (*posts.Post, error) {
	query := `
		UPDATE posts
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id, string(from), string(to)))
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update post status: %w", err)
	}

	// Nothing updated: either the post is gone or someone else changed its status
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check post existence: %w", err)
	}
	if !exists {
		return nil, posts.ErrNotFound
	}
	return nil, posts.ErrStatusConflict
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var post posts.Post
	var postType, status string
	var imageURL, locationName, contactMethod sql.NullString
	var reward sql.NullFloat64
	var lng, lat float64

	err := row.Scan(
		&post.ID, &postType, &post.Category, &post.Title, &post.Description, &imageURL,
		&locationName, &lng, &lat,
		&post.UserID, &reward, &contactMethod, &status, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Type = posts.Type(postType)
	post.Status = posts.Status(status)
	post.Location = posts.Location{
		Type:        posts.GeoJSONPoint,
		Coordinates: [2]float64{lng, lat},
	}

	// Convert SQL types back to Go types
	if imageURL.Valid {
		post.ImageURL = &imageURL.String
	}
	if locationName.Valid {
		post.Location.Name = &locationName.String
	}
	if contactMethod.Valid {
		post.ContactMethod = &contactMethod.String
	}
	if reward.Valid {
		post.Reward = &reward.Float64
	}

	return &post, nil
}
