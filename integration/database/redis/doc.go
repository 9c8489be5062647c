// Package redis provides redis client initialization with retry logic and
// health checking.
//
// Connect validates the connection URL, dials with exponential backoff, and
// verifies connectivity with a ping before returning the client. Both
// redis:// and rediss:// URL schemes are supported.
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//	client, err := redis.Connect(ctx, cfg)
package redis
