package token

import "errors"

var (
	// ErrInvalidToken is returned when a token fails signature, format, or expiry checks.
	ErrInvalidToken = errors.New("token is not valid")
	// ErrNotWhitelisted is returned when a refresh token is well-formed but is not
	// the currently whitelisted token for its subject.
	ErrNotWhitelisted = errors.New("refresh token is not whitelisted")
	// ErrUnknownKind is returned when validation is requested for an unknown token kind.
	ErrUnknownKind = errors.New("unknown token kind")
	// ErrWhitelistUnavailable is returned when the whitelist store cannot be reached.
	ErrWhitelistUnavailable = errors.New("whitelist store unavailable")
	// ErrNotFound is returned by whitelist stores when no entry exists for a subject.
	ErrNotFound = errors.New("whitelist entry not found")
)
