package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

type userService struct {
	userRepo UserRepository
	provider IdentityProvider
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, provider IdentityProvider) UserService {
	return &userService{
		userRepo: userRepo,
		provider: provider,
	}
}

// SyncUser looks up the caller at the identity provider and returns the local record,
// creating it on first sight. Existing records are returned unchanged.
func (s *userService) SyncUser(ctx context.Context) (*User, error) {
	identity, err := s.provider.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	if identity == nil {
		return nil, nil
	}

	clerkID := strings.TrimSpace(identity.ID)
	if clerkID == "" {
		return nil, ErrInvalidIdentity
	}

	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUserFromIdentity(clerkID, identity))
	if err == nil {
		slog.Info("user synced from identity provider", "clerk_id", clerkID, "id", created.ID)
		return created, nil
	}

	// Another request created the same user between our read and insert
	if errors.Is(err, ErrUserAlreadyExists) {
		slog.Debug("user created concurrently, re-reading", "clerk_id", clerkID)
		existing, getErr := s.userRepo.GetByClerkID(ctx, clerkID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to re-read user after conflict: %w", getErr)
		}
		return existing, nil
	}

	return nil, fmt.Errorf("failed to create user: %w", err)
}

// GetUserByClerkID retrieves a user by their identity-provider ID
func (s *userService) GetUserByClerkID(ctx context.Context, clerkID string) (*User, error) {
	clerkID = strings.TrimSpace(clerkID)
	if clerkID == "" {
		return nil, fmt.Errorf("clerk ID is required")
	}

	return s.userRepo.GetByClerkID(ctx, clerkID)
}

// newUserFromIdentity maps the provider's profile onto a new local record
func newUserFromIdentity(clerkID string, identity *ExternalIdentity) *User {
	user := &User{ClerkID: clerkID}

	var nameParts []string
	for _, part := range []string{identity.FirstName, identity.LastName} {
		if p := strings.TrimSpace(part); p != "" {
			nameParts = append(nameParts, p)
		}
	}
	if len(nameParts) > 0 {
		name := strings.Join(nameParts, " ")
		user.Name = &name
	}

	if len(identity.EmailAddresses) > 0 && identity.EmailAddresses[0] != "" {
		email := identity.EmailAddresses[0]
		user.Email = &email
	}

	if len(identity.PhoneNumbers) > 0 && identity.PhoneNumbers[0] != "" {
		phone := identity.PhoneNumbers[0]
		user.PhoneNumber = &phone
	}

	if identity.HasImage && identity.ImageURL != "" {
		imageURL := identity.ImageURL
		user.ProfileImageURL = &imageURL
	}

	return user
}
