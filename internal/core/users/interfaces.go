package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts a new user.
	// Returns ErrUserAlreadyExists when a user with the same ClerkID exists.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByClerkID retrieves a user by identity-provider ID
	GetByClerkID(ctx context.Context, clerkID string) (*User, error)
}

// IdentityProvider looks up the caller of the current request at the identity provider
type IdentityProvider interface {
	// CurrentUser returns the authenticated caller, or nil with no error
	// when the request is anonymous.
	CurrentUser(ctx context.Context) (*ExternalIdentity, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	// SyncUser makes sure the current caller has a local user record.
	// Returns nil, nil for anonymous callers. Safe to call repeatedly and
	// concurrently; at most one record is created per identity.
	SyncUser(ctx context.Context) (*User, error)

	// GetUserByClerkID retrieves a previously synced user
	GetUserByClerkID(ctx context.Context, clerkID string) (*User, error)
}
