package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript refills and takes in one atomic step. Keys expire once the
// bucket would be full again, so idle keys cost nothing.
var takeScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local refill_interval_ms = tonumber(ARGV[3])
local now_ms = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill_ms = tonumber(state[2])
if tokens == nil then
	tokens = capacity
	last_refill_ms = now_ms
end

local elapsed = now_ms - last_refill_ms
if elapsed >= refill_interval_ms then
	local intervals = math.floor(elapsed / refill_interval_ms)
	tokens = math.min(capacity, tokens + intervals * refill_rate)
	last_refill_ms = last_refill_ms + intervals * refill_interval_ms
end

local allowed = 0
if tokens > 0 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill_ms)
local ttl_ms = math.ceil(capacity / refill_rate + 1) * refill_interval_ms
redis.call('PEXPIRE', key, ttl_ms)

return {allowed, tokens, refill_interval_ms - (now_ms - last_refill_ms)}
`)

// RedisStore shares bucket state across instances through redis.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store keyed under the given prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Take(ctx context.Context, key string, cfg Config) (Result, error) {
	vals, err := takeScript.Run(ctx, s.client,
		[]string{s.prefix + ":" + key},
		cfg.Capacity, cfg.RefillRate, cfg.RefillInterval.Milliseconds(),
		time.Now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("running take script: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("unexpected script reply of length %d", len(vals))
	}

	res := Result{
		Allowed:   vals[0] == 1,
		Remaining: int(vals[1]),
	}
	if !res.Allowed {
		res.RetryAfter = time.Duration(vals[2]) * time.Millisecond
	}
	return res, nil
}
