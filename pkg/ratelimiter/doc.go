// Package ratelimiter provides token bucket rate limiting with pluggable
// storage backends.
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval; each allowed call consumes one. Bursts up to Capacity pass
// immediately while the average rate stays bounded.
//
//	limiter, err := ratelimiter.NewBucket(
//		ratelimiter.NewRedisStore(client, "login"),
//		ratelimiter.Config{Capacity: 10, RefillRate: 1, RefillInterval: time.Minute},
//	)
//	res, err := limiter.Allow(ctx, clientIP)
//	if !res.Allowed {
//		// reject with res.RetryAfter
//	}
//
// MemoryStore serves tests and single-instance deployments; RedisStore
// shares state across replicas with an atomic Lua script.
package ratelimiter
