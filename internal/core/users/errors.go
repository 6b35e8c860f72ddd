package users

import "errors"

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when a user with the same external ID is already stored
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidIdentity is returned when the identity provider reports a user without an ID
	ErrInvalidIdentity = errors.New("identity provider returned a user without an ID")
)
