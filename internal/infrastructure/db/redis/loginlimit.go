package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailPrefix = "loginfail:"

// LoginThrottle tracks failed login attempts per email in Redis. The
// failure counter expires after the configured window, so a quiet account
// recovers on its own.
type LoginThrottle struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewLoginThrottle(client *redis.Client, max int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, max: max, window: window}
}

// TooMany reports whether the email has reached the failure ceiling
// within the current window.
func (t *LoginThrottle) TooMany(ctx context.Context, email string) (bool, error) {
	count, err := t.client.Get(ctx, loginFailPrefix+email).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle get: %w", err)
	}
	return count >= t.max, nil
}

// RecordFailure bumps the failure counter. The window TTL is set on the
// first failure only, so repeated failures cannot keep extending it.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := loginFailPrefix + email
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login throttle incr: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("login throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, loginFailPrefix+email).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}
