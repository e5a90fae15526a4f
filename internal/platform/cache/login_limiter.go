package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles sign-in attempts with a fixed-window counter per
// key (email plus client address). The first INCR in a window sets the
// window's expiry.
type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

// Allow records one attempt for key and reports whether it is still within
// the window's budget.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "login_attempts:" + key

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.maxAttempts), nil
}
