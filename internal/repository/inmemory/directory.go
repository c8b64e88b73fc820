package inmemory

import (
	"context"
	"sync"
	"time"

	obligationdomain "subtrack/internal/domain/obligation"
)

// CachingDirectory wraps a user directory with a TTL cache. Only successful
// lookups are cached, so a user who registers after a miss is visible on the
// next call.
type CachingDirectory struct {
	next obligationdomain.Directory
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]directoryItem
}

type directoryItem struct {
	userID    string
	expiresAt time.Time
}

func NewCachingDirectory(next obligationdomain.Directory, ttl time.Duration) *CachingDirectory {
	return &CachingDirectory{
		next:  next,
		ttl:   ttl,
		items: make(map[string]directoryItem),
	}
}

func (c *CachingDirectory) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	if userID, ok := c.get(email); ok {
		return userID, nil
	}

	userID, err := c.next.FindUserIDByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if userID != "" {
		c.set(email, userID)
	}
	return userID, nil
}

func (c *CachingDirectory) get(email string) (string, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[email]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[email]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, email)
		}
		c.mu.Unlock()
		return "", false
	}

	return item.userID, true
}

func (c *CachingDirectory) set(email, userID string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.items[email] = directoryItem{
		userID:    userID,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}
