// Package webhookcache tracks the impersonation webhook provisioned for
// each (destination channel, source author) pair, persisted so webhooks
// survive restarts instead of piling up on the destination platform.
package webhookcache

import (
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// Store persists the whole channel→author→endpoint mapping. Load is
// best-effort at startup; Save overwrites the entire store.
type Store interface {
	Load() (map[string]map[string]string, error)
	Save(map[string]map[string]string) error
}

// Cache is owned by exactly one relay pipeline, which is the only writer,
// so reads need no locking.
type Cache struct {
	store Store
	hooks map[string]map[string]string
}

// New loads the cache from store. A missing or unreadable store yields an
// empty cache rather than an error: worst case the bridge provisions fresh
// webhooks.
func New(store Store) *Cache {
	hooks, err := store.Load()
	if err != nil {
		logger.WarnCF("webhookcache", "Starting with empty cache", map[string]any{
			"error": err.Error(),
		})
		hooks = nil
	}
	if hooks == nil {
		hooks = make(map[string]map[string]string)
	}
	return &Cache{store: store, hooks: hooks}
}

// Get returns the cached endpoint for an author in a destination channel.
func (c *Cache) Get(channelID, authorID string) (string, bool) {
	endpoint, ok := c.hooks[channelID][authorID]
	return endpoint, ok
}

// Put records a freshly provisioned endpoint and persists the cache before
// returning. A persistence failure is reported but does not invalidate the
// in-memory entry.
func (c *Cache) Put(channelID, authorID, endpoint string) error {
	byAuthor := c.hooks[channelID]
	if byAuthor == nil {
		byAuthor = make(map[string]string)
		c.hooks[channelID] = byAuthor
	}
	byAuthor[authorID] = endpoint
	return c.store.Save(c.hooks)
}

// Len reports the number of cached endpoints across all channels.
func (c *Cache) Len() int {
	n := 0
	for _, byAuthor := range c.hooks {
		n += len(byAuthor)
	}
	return n
}
