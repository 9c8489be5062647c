package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderNative marks accounts with a locally managed password. Any other
// provider value names the OAuth identity provider that owns the account.
const ProviderNative = "native"

// User is an interview platform account.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	Name         string
	Provider     string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// Store is the persistence surface the auth service needs.
type Store interface {
	ByEmail(ctx context.Context, email string) (User, error)
	ByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, u User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// Deactivate is idempotent; deactivating an inactive account succeeds.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// PGStore is the Postgres-backed Store.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps the pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const userColumns = `id, email, username, name, provider, password_hash, active, created_at`

func (s *PGStore) ByEmail(ctx context.Context, email string) (User, error) {
	return s.one(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PGStore) ByUsername(ctx context.Context, username string) (User, error) {
	return s.one(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *PGStore) one(ctx context.Context, query string, arg any) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.Name, &u.Provider,
		&u.PasswordHash, &u.Active, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

func (s *PGStore) Create(ctx context.Context, u User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, username, name, provider, password_hash, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Username, u.Name, u.Provider, u.PasswordHash, u.Active, u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return ErrUsernameTaken
		default:
			return ErrEmailTaken
		}
	}
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *PGStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1 AND active`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate marks the account inactive. An already-inactive or absent
// account is a no-op, so repeated calls succeed.
func (s *PGStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	return nil
}
