package identity

import "errors"

var (
	// ErrMissingToken is returned when a request carries no bearer token
	ErrMissingToken = errors.New("missing bearer token")

	// ErrUnknownKey is returned when a token's kid is not in the provider's JWKS
	ErrUnknownKey = errors.New("token signed with unknown key")

	// ErrUnauthorizedParty is returned when the token's azp is not an allowed origin
	ErrUnauthorizedParty = errors.New("token issued for an unauthorized party")
)
