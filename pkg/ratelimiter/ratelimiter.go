package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig is returned for non-positive capacity or refill settings.
	ErrInvalidConfig = errors.New("invalid rate limiter configuration")
	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("rate limiter store unavailable")
)

// Config describes one token bucket shape.
type Config struct {
	// Capacity is the burst size: the maximum tokens a bucket holds.
	Capacity int
	// RefillRate is how many tokens are added per RefillInterval.
	RefillRate int
	// RefillInterval is the refill cadence.
	RefillInterval time.Duration
}

func (c Config) validate() error {
	if c.Capacity <= 0 || c.RefillRate <= 0 || c.RefillInterval <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Result reports the outcome of one Allow call.
type Result struct {
	// Allowed is true when a token was consumed.
	Allowed bool
	// Remaining is the token count left in the bucket.
	Remaining int
	// RetryAfter is how long until the next token arrives. Zero when allowed.
	RetryAfter time.Duration
}

// Store persists bucket state. Implementations must apply the take
// atomically per key.
type Store interface {
	// Take attempts to consume one token from the bucket at key, refilling
	// it according to cfg first.
	Take(ctx context.Context, key string, cfg Config) (Result, error)
}

// Bucket is a token bucket rate limiter over a pluggable store.
type Bucket struct {
	store Store
	cfg   Config
}

// NewBucket validates the configuration and wraps the store.
func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg}, nil
}

// Allow consumes one token for key, reporting whether the caller may proceed.
func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	res, err := b.store.Take(ctx, key, b.cfg)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return res, nil
}
