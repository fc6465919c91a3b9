package cache

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// unreadTTL bounds staleness of cached unread counters; invalidation on
// write keeps them fresh in the common case
const unreadTTL = 5 * time.Minute

// UnreadCounts caches per-user unread notification and message totals.
// With the cache disabled every lookup is a miss.
type UnreadCounts struct {
	cache *Cache
}

// NewUnreadCounts creates an unread counter cache over the shared cache
func NewUnreadCounts(c *Cache) *UnreadCounts {
	return &UnreadCounts{cache: c}
}

// Get returns the cached count for the key kind, reporting a miss via ok
func (u *UnreadCounts) Get(kind string, userID int64) (int64, bool) {
	val, err := u.cache.Get(unreadKey(kind, userID))
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores the count for the key kind
func (u *UnreadCounts) Set(kind string, userID, count int64) error {
	err := u.cache.Set(unreadKey(kind, userID), count, unreadTTL)
	if errors.Is(err, ErrCacheDisabled) {
		return nil
	}
	return err
}

// Invalidate drops the cached count after a write that changes it
func (u *UnreadCounts) Invalidate(kind string, userID int64) error {
	err := u.cache.Delete(unreadKey(kind, userID))
	if errors.Is(err, ErrCacheDisabled) {
		return nil
	}
	return err
}

// Unread count kinds
const (
	UnreadNotifications = "notifications"
	UnreadMessages      = "messages"
)

func unreadKey(kind string, userID int64) string {
	return fmt.Sprintf("unread:%s:%d", kind, userID)
}
