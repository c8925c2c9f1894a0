package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "ratelimit:"

// Fixed-window counter: first hit in a window creates the key with the
// window TTL, and the TTL boundary is the reset boundary.
var fixedWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

local count = redis.call('INCR', key)
if count == 1 then
    redis.call('PEXPIRE', key, window)
end

if count > limit then
    return 0
end
return 1
`)

// RedisStore shares fixed-window counters across processes. The
// limiter is defense in depth, not a security boundary of record, so
// it fails open when redis is unreachable.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	result, err := fixedWindowScript.Run(ctx, s.client,
		[]string{redisKeyPrefix + key}, limit, window.Milliseconds()).Int64()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis rate limit check failed, allowing request")
		return true
	}
	return result == 1
}
