package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter per key.
type RateLimiter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(rdb redis.Cmdable, perMinute int) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: perMinute, window: time.Minute, now: time.Now}
}

// Allow counts one request for key and reports whether it fits the window,
// plus how long until the window resets.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.limit <= 0 {
		return true, 0, nil
	}
	slot := l.now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("hooked:rl:%s:%d", key, slot)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}
	reset := time.Duration((slot+1)*int64(l.window) - l.now().UnixNano())
	return incr.Val() <= int64(l.limit), reset, nil
}
