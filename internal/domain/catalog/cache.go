package catalog

import (
	"context"
	"sync"
)

// Cache holds the most recent catalog snapshot. New reconciliation sessions
// seed from it so repeated uploads do not reload the catalog each time; the
// cron scheduler refreshes it in the background.
type Cache struct {
	store Store

	mu   sync.RWMutex
	snap *Snapshot
}

// NewCache creates an empty cache over the given store.
func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Current returns the cached snapshot, loading it on first use.
func (c *Cache) Current(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return c.Refresh(ctx)
}

// Refresh reloads the snapshot from the store and swaps it in.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := LoadSnapshot(ctx, c.store)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
	return snap, nil
}
