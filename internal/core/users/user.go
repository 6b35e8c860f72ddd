package users

import (
	"time"

	"github.com/google/uuid"
)

// User is the local profile of someone who signed in through the identity provider.
// Profile fields are captured once, on first sync, and are not refreshed afterwards.
type User struct {
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	Name            *string   `json:"name,omitempty" db:"name"`
	Email           *string   `json:"email,omitempty" db:"email"`
	PhoneNumber     *string   `json:"phoneNumber,omitempty" db:"phone_number"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty" db:"profile_image_url"`
	ClerkID         string    `json:"clerkId" db:"clerk_id"`
	ID              uuid.UUID `json:"id" db:"id"`
}

// ExternalIdentity is the authenticated user as reported by the identity provider
type ExternalIdentity struct {
	ID             string
	FirstName      string
	LastName       string
	ImageURL       string
	EmailAddresses []string
	PhoneNumbers   []string
	HasImage       bool
}
