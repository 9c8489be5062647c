package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voicescreen/interviewd/pkg/jwt"
)

// Kind selects which signing secret and validation rules apply to a token.
type Kind int

const (
	// KindAccess is a short-lived token validated statelessly.
	KindAccess Kind = iota
	// KindRefresh is a long-lived token additionally gated by the whitelist.
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Claims carries the identity claims embedded in both token kinds.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

// Pair is the result of issuing or rotating tokens.
type Pair struct {
	Access  string
	Refresh string
}

// Manager issues, validates, rotates, and revokes access and refresh tokens.
// Access and refresh tokens are signed with independent secrets; refresh
// validity additionally requires the token to be the whitelisted value for
// its subject.
type Manager struct {
	access     *jwt.Service
	refresh    *jwt.Service
	store      WhitelistStore
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a token manager from two independent signing secrets and the
// whitelist store used to gate refresh tokens.
func New(accessSecret, refreshSecret string, store WhitelistStore, opts ...Option) (*Manager, error) {
	accessSvc, err := jwt.NewFromString(accessSecret)
	if err != nil {
		return nil, fmt.Errorf("access token service: %w", err)
	}
	refreshSvc, err := jwt.NewFromString(refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh token service: %w", err)
	}
	if store == nil {
		return nil, errors.New("whitelist store is required")
	}

	m := &Manager{
		access:     accessSvc,
		refresh:    refreshSvc,
		store:      store,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue creates a new access/refresh pair for the subject and makes the new
// refresh token the only whitelisted one. The prior whitelist entry is deleted
// before the new one is written, so at most one refresh token is valid per
// subject. No transaction spans token creation and the store write: a crash
// between the two leaves the subject with zero valid refresh tokens and the
// client must re-authenticate.
func (m *Manager) Issue(ctx context.Context, subject, email string) (Pair, error) {
	now := time.Now().UTC()

	// Unique jti also guarantees two issues in the same second differ.
	accessToken, err := m.access.Generate(Claims{
		StandardClaims: jwt.StandardClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.accessTTL).Unix(),
		},
		Email: email,
	})
	if err != nil {
		return Pair{}, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := m.refresh.Generate(Claims{
		StandardClaims: jwt.StandardClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.refreshTTL).Unix(),
		},
		Email: email,
	})
	if err != nil {
		return Pair{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := m.store.Delete(ctx, subject); err != nil {
		return Pair{}, err
	}
	if err := m.store.Set(ctx, subject, refreshToken, m.refreshTTL); err != nil {
		return Pair{}, err
	}

	return Pair{Access: accessToken, Refresh: refreshToken}, nil
}

// Validate verifies the token signature and expiry against the secret selected
// by kind. For refresh tokens it additionally requires the token to equal the
// whitelisted value for its subject; a mismatched or absent entry is reported
// as ErrNotWhitelisted and any stale entry is deleted.
func (m *Manager) Validate(ctx context.Context, tokenStr string, kind Kind) (Claims, error) {
	var svc *jwt.Service
	switch kind {
	case KindAccess:
		svc = m.access
	case KindRefresh:
		svc = m.refresh
	default:
		return Claims{}, ErrUnknownKind
	}

	var claims Claims
	if err := svc.Parse(tokenStr, &claims); err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	if kind == KindRefresh {
		stored, err := m.store.Get(ctx, claims.Subject)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return Claims{}, err
		}
		if stored != tokenStr {
			// A stale entry means the token was superseded; drop it so the
			// subject is forced through a full login.
			if err := m.store.Delete(ctx, claims.Subject); err != nil {
				return Claims{}, err
			}
			return Claims{}, ErrNotWhitelisted
		}
	}

	return claims, nil
}

// Rotate exchanges a valid refresh token for a fresh access/refresh pair and
// invalidates the old refresh token. Rotation is single-use: a second call
// with the same token fails with ErrNotWhitelisted. Concurrent rotations for
// the same subject race on the whitelist key; the last writer wins and the
// earlier winner's client must log in again.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (Pair, error) {
	claims, err := m.Validate(ctx, refreshToken, KindRefresh)
	if err != nil {
		return Pair{}, err
	}

	if err := m.store.Delete(ctx, claims.Subject); err != nil {
		return Pair{}, err
	}

	return m.Issue(ctx, claims.Subject, claims.Email)
}

// Revoke deletes the whitelist entry for the subject, invalidating any
// outstanding refresh token. Revoking a subject with no entry is a no-op.
func (m *Manager) Revoke(ctx context.Context, subject string) error {
	return m.store.Delete(ctx, subject)
}
