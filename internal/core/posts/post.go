package posts

import (
	"time"

	"github.com/google/uuid"
)

// Type distinguishes listings for items someone lost from items someone found
type Type string

const (
	TypeLost  Type = "lost"
	TypeFound Type = "found"
)

// Valid reports whether t is one of the known post types
func (t Type) Valid() bool {
	return t == TypeLost || t == TypeFound
}

// GeoJSONPoint is the only geometry type posts are stored with
const GeoJSONPoint = "Point"

// Location is a GeoJSON-style point with an optional human-readable name.
// Coordinates are ordered [longitude, latitude].
type Location struct {
	Name        *string    `json:"name,omitempty"`
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Lng returns the longitude component of the point
func (l Location) Lng() float64 { return l.Coordinates[0] }

// Lat returns the latitude component of the point
func (l Location) Lat() float64 { return l.Coordinates[1] }

// Post represents a lost or found listing in the database
type Post struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url"`
	Reward        *float64  `json:"reward,omitempty" db:"reward"`
	ContactMethod *string   `json:"contactMethod,omitempty" db:"contact_method"`
	Location      Location  `json:"location"`
	Type          Type      `json:"type" db:"type"`
	Category      string    `json:"category" db:"category"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	UserID        string    `json:"userId" db:"user_id"`
	Status        Status    `json:"status" db:"status"`
	ID            uuid.UUID `json:"id" db:"id"`
}

// LocationInput is the client-supplied location of a new post.
// Coordinates is a slice so that an absent field can be told apart from [0, 0].
type LocationInput struct {
	Name        *string   `json:"name,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// CreatePostRequest represents input for creating a new post
type CreatePostRequest struct {
	Location      *LocationInput `json:"location"`
	ImageURL      *string        `json:"imageUrl,omitempty"`
	Reward        *float64       `json:"reward,omitempty"`
	ContactMethod *string        `json:"contactMethod,omitempty"`
	Type          string         `json:"type"`
	Category      string         `json:"category"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	// Status is accepted for compatibility with older clients and ignored;
	// new posts always start open.
	Status string `json:"status,omitempty"`
	// UserID is taken from the authenticated session, never from the body
	UserID string `json:"-"`
}

// NearbyRequest represents a proximity search around a point.
// Lng and Lat are pointers so a missing parameter is distinguishable from 0.
type NearbyRequest struct {
	Lng *float64
	Lat *float64
	// MaxDistance is in meters; zero or negative selects DefaultMaxDistance
	MaxDistance float64
}

// NearbyQuery is the validated, defaulted form of NearbyRequest handed to the repository
type NearbyQuery struct {
	Lng               float64
	Lat               float64
	MaxDistanceMeters float64
}

// UpdateStatusRequest represents a status change requested by a post's creator
type UpdateStatusRequest struct {
	Status string    `json:"status"`
	UserID string    `json:"-"`
	ID     uuid.UUID `json:"-"`
}
