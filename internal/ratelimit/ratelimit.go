// Package ratelimit implements a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func New(rdb redis.Cmdable, limit int, window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{rdb: rdb, limit: limit, window: window, prefix: "rl:", now: time.Now}
}

// Allow records a hit for key. A limit <= 0 disables limiting. Redis errors
// fail open so an outage does not take the API down with it.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.limit <= 0 {
		return Decision{Allowed: true}, nil
	}

	now := l.now()
	bucket := now.UnixNano() / int64(l.window)
	resetIn := time.Duration((bucket+1)*int64(l.window) - now.UnixNano())
	k := l.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}, fmt.Errorf("ratelimit: %w", err)
	}

	n := int(incr.Val())
	remaining := l.limit - n
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   n <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
