package cache

import (
	"errors"
	"fmt"
	"time"
)

// LoginLimiter throttles login attempts per client address using a Redis
// counter with a rolling expiry. With the cache disabled it allows
// everything.
type LoginLimiter struct {
	cache       *Cache
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter creates a login limiter over the shared cache
func NewLoginLimiter(c *Cache, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		cache:       c,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

// Allow records one attempt for the address and reports whether it is
// still within the limit
func (l *LoginLimiter) Allow(addr string) (bool, error) {
	count, err := l.cache.Incr(loginKey(addr), l.window)
	if errors.Is(err, ErrCacheDisabled) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return count <= l.maxAttempts, nil
}

// Reset clears the attempt counter after a successful login
func (l *LoginLimiter) Reset(addr string) error {
	err := l.cache.Delete(loginKey(addr))
	if errors.Is(err, ErrCacheDisabled) {
		return nil
	}
	return err
}

func loginKey(addr string) string {
	return fmt.Sprintf("login_attempts:%s", addr)
}
