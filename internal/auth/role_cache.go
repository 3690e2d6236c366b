// Package auth holds the admin-role cache used by the admin middleware.
// Role lookups hit the database at most once per TTL per user.
package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type roleEntry struct {
	isAdmin   bool
	expiresAt time.Time
}

// RoleCache is a TTL-bounded, size-capped cache of admin-role lookups keyed
// by user ID. Entries are evicted lazily on read and, when the cap is
// reached, expired entries are swept before the oldest entry is dropped.
type RoleCache struct {
	mu         sync.Mutex
	entries    map[uuid.UUID]roleEntry
	ttl        time.Duration
	maxEntries int
	logger     zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRoleCache creates a role cache with the given TTL and entry cap.
func NewRoleCache(ttl time.Duration, maxEntries int, logger zerolog.Logger) *RoleCache {
	return &RoleCache{
		entries:    make(map[uuid.UUID]roleEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger.With().Str("component", "role-cache").Logger(),
		now:        time.Now,
	}
}

// Get returns the cached admin flag for the user and whether a live entry
// was found.
func (c *RoleCache) Get(userID uuid.UUID) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return false, false
	}

	if c.now().After(entry.expiresAt) {
		delete(c.entries, userID)
		return false, false
	}

	return entry.isAdmin, true
}

// Set stores the admin flag for the user.
func (c *RoleCache) Set(userID uuid.UUID, isAdmin bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Overwriting an existing key needs no room, so never evict for it.
	if _, exists := c.entries[userID]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	c.entries[userID] = roleEntry{
		isAdmin:   isAdmin,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the user's entry. Called on logout so a revoked admin
// does not keep cached rights.
func (c *RoleCache) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// Len returns the number of entries currently held, expired or not.
func (c *RoleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked frees space for one insertion: expired entries first, then the
// entry closest to expiry. Caller must hold the lock.
func (c *RoleCache) evictLocked() {
	now := c.now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}

	if len(c.entries) < c.maxEntries {
		return
	}

	var oldestID uuid.UUID
	var oldest time.Time
	first := true
	for id, entry := range c.entries {
		if first || entry.expiresAt.Before(oldest) {
			oldestID = id
			oldest = entry.expiresAt
			first = false
		}
	}

	delete(c.entries, oldestID)
	c.logger.Debug().Str("user_id", oldestID.String()).Msg("role cache entry evicted at capacity")
}
