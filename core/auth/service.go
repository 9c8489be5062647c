package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voicescreen/interviewd/core/token"
)

// TokenIssuer is the slice of the token manager the auth service uses.
type TokenIssuer interface {
	Issue(ctx context.Context, subject, email string) (token.Pair, error)
	Revoke(ctx context.Context, subject string) error
}

// Service implements account lifecycle on top of a Store and a token issuer.
type Service struct {
	store  Store
	tokens TokenIssuer
}

// NewService wires the auth service.
func NewService(store Store, tokens TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// Signup creates a native account. Email and username collisions surface as
// ErrEmailTaken / ErrUsernameTaken.
func (s *Service) Signup(ctx context.Context, email, username, name, password string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	u := User{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		Username:     strings.TrimSpace(username),
		Name:         strings.TrimSpace(name),
		Provider:     ProviderNative,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifies the password and issues a token pair. All failure modes
// collapse into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (User, token.Pair, error) {
	u, err := s.store.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, token.Pair{}, ErrInvalidCredentials
		}
		return User{}, token.Pair{}, err
	}
	if !u.Active || u.Provider != ProviderNative {
		return User{}, token.Pair{}, ErrInvalidCredentials
	}

	ok, err := VerifyPassword(u.PasswordHash, password)
	if err != nil || !ok {
		return User{}, token.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, u.ID.String(), u.Email)
	if err != nil {
		return User{}, token.Pair{}, fmt.Errorf("issuing tokens: %w", err)
	}
	return u, pair, nil
}

// OAuthLogin signs in a provider-asserted identity, creating the account on
// first login. The provider has already authenticated the email; no password
// is involved.
func (s *Service) OAuthLogin(ctx context.Context, provider, email, name string) (User, token.Pair, error) {
	email = normalizeEmail(email)

	u, err := s.store.ByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		u = User{
			ID:        uuid.New(),
			Email:     email,
			Username:  email,
			Name:      strings.TrimSpace(name),
			Provider:  provider,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.Create(ctx, u); err != nil {
			return User{}, token.Pair{}, err
		}
	case err != nil:
		return User{}, token.Pair{}, err
	case !u.Active:
		return User{}, token.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, u.ID.String(), u.Email)
	if err != nil {
		return User{}, token.Pair{}, fmt.Errorf("issuing tokens: %w", err)
	}
	return u, pair, nil
}

// ResetPassword replaces the password of a native account after verifying
// the current one. Provider-managed accounts are refused.
func (s *Service) ResetPassword(ctx context.Context, email, current, next string) error {
	u, err := s.store.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if u.Provider != ProviderNative {
		return ErrProviderManaged
	}

	ok, err := VerifyPassword(u.PasswordHash, current)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.store.UpdatePassword(ctx, u.ID, hash)
}

// Profile returns the account behind an authenticated email. Deactivated
// accounts read as missing.
func (s *Service) Profile(ctx context.Context, email string) (User, error) {
	u, err := s.store.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, err
	}
	if !u.Active {
		return User{}, ErrNotFound
	}
	return u, nil
}

// Deactivate disables the account and revokes its refresh token, so existing
// access tokens age out and nothing can be refreshed.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Deactivate(ctx, id); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, id.String())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
