package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WhitelistStore holds the single currently-valid refresh token per subject.
// Implementations must be safe for concurrent use; operations are atomic at
// the single-key level only, so concurrent writers for the same subject race
// with last-writer-wins semantics.
type WhitelistStore interface {
	// Get returns the whitelisted refresh token for the subject,
	// or ErrNotFound if no entry exists.
	Get(ctx context.Context, subject string) (string, error)
	// Set replaces the whitelist entry for the subject.
	Set(ctx context.Context, subject, refreshToken string, ttl time.Duration) error
	// Delete removes the whitelist entry. Deleting an absent entry is a no-op.
	Delete(ctx context.Context, subject string) error
}

const whitelistKeyPrefix = "rt:whitelist:"

// RedisWhitelist implements WhitelistStore on a single Redis key per subject.
type RedisWhitelist struct {
	client redis.UniversalClient
}

// NewRedisWhitelist creates a whitelist store backed by the given Redis client.
func NewRedisWhitelist(client redis.UniversalClient) *RedisWhitelist {
	return &RedisWhitelist{client: client}
}

func (s *RedisWhitelist) Get(ctx context.Context, subject string) (string, error) {
	val, err := s.client.Get(ctx, whitelistKeyPrefix+subject).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrWhitelistUnavailable, err)
	}
	return val, nil
}

func (s *RedisWhitelist) Set(ctx context.Context, subject, refreshToken string, ttl time.Duration) error {
	if err := s.client.Set(ctx, whitelistKeyPrefix+subject, refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWhitelistUnavailable, err)
	}
	return nil
}

func (s *RedisWhitelist) Delete(ctx context.Context, subject string) error {
	if err := s.client.Del(ctx, whitelistKeyPrefix+subject).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWhitelistUnavailable, err)
	}
	return nil
}
