package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type memoryBucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore keeps bucket state in process memory. Suitable for tests and
// single-instance deployments; shared deployments should use RedisStore so
// all replicas see the same buckets.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*memoryBucket),
		now:     time.Now,
	}
}

func (s *MemoryStore) Take(_ context.Context, key string, cfg Config) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets[key]
	if !ok {
		b = &memoryBucket{tokens: cfg.Capacity, lastRefill: now}
		s.buckets[key] = b
	}

	if elapsed := now.Sub(b.lastRefill); elapsed >= cfg.RefillInterval {
		intervals := int(elapsed / cfg.RefillInterval)
		b.tokens = min(cfg.Capacity, b.tokens+intervals*cfg.RefillRate)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * cfg.RefillInterval)
	}

	if b.tokens <= 0 {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: cfg.RefillInterval - now.Sub(b.lastRefill),
		}, nil
	}

	b.tokens--
	return Result{Allowed: true, Remaining: b.tokens}, nil
}

// Purge drops buckets idle long enough to be full again, bounding memory on
// long-running processes.
func (s *MemoryStore) Purge(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	full := time.Duration(cfg.Capacity/cfg.RefillRate+1) * cfg.RefillInterval
	cutoff := s.now().Add(-full)
	for key, b := range s.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(s.buckets, key)
		}
	}
}
