package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hits are members of a sorted set scored by their time in ms. A hit over
// the limit is not recorded, so a client retrying too early does not push
// its own window further out.
//
// KEYS[1] = key, ARGV = now_ms, window_ms, limit, member
// Returns {allowed, retry_after_ms}.
const luaSlidingWindow = `
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - window)

if redis.call('ZCARD', KEYS[1]) >= limit then
  local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
  local wait = window
  if oldest[2] then
    wait = tonumber(oldest[2]) + window - now
  end
  return {0, math.max(wait, 1)}
end

redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)
return {1, 0}
`

// SlidingWindowLimiter allows at most limit hits per user within window.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	script *redis.Script
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	scope string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		script: redis.NewScript(luaSlidingWindow),
	}
}

// Allow records a hit for userID. When the limit is reached it returns
// false and how long to wait before the oldest hit leaves the window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, userID int64) (bool, time.Duration, error) {
	const op = "redisrepo.SlidingWindowLimiter.Allow"

	res, err := l.script.Run(
		ctx,
		l.rdb,
		[]string{KeyRateLimit(l.scope, userID)},
		time.Now().UnixMilli(), l.window.Milliseconds(), l.limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}

	allowed, retryAfter, err := parseLimiterResult(res)
	if err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}

	return allowed, retryAfter, nil
}

func parseLimiterResult(res []int64) (bool, time.Duration, error) {
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected script result %v", res)
	}

	return res[0] == 1, time.Duration(res[1]) * time.Millisecond, nil
}
