package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for any login failure, whether the
	// account is missing, deactivated, or the password is wrong. Callers get
	// one indistinguishable failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when signing up with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when signing up with a username already in use.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrProviderManaged is returned when a password operation targets an
	// account owned by an OAuth provider.
	ErrProviderManaged = errors.New("account is managed by an external provider")
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidHash is returned when a stored password hash cannot be parsed.
	ErrInvalidHash = errors.New("malformed password hash")
)
