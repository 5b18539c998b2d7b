// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package botpress

import "sync"

// =============================================================================
// KEYED CACHE
// =============================================================================

// cache is a small keyed store with explicit invalidation. It replaces
// ad hoc map juggling so the invalidation contract lives in one place:
//
//   - the message-list entry for a conversation is evicted whenever a
//     message is sent in that conversation (the next read must observe
//     the new message);
//   - a brand-new conversation is seeded with an empty list (it cannot
//     have messages yet, so an immediate re-fetch would be wasted);
//   - conversation metadata is populated lazily and never proactively
//     invalidated (accepted staleness);
//   - everything is cleared wholesale on client Close.
//
// Entries are owned exclusively by one client instance.
type cache[V any] struct {
	mu      sync.Mutex
	entries map[string]V
}

func newCache[V any]() *cache[V] {
	return &cache[V]{entries: make(map[string]V)}
}

// get returns the cached value for key and whether an entry exists.
func (c *cache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// put stores a value under key, replacing any existing entry.
func (c *cache[V]) put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// invalidate removes the entry for key, if any.
func (c *cache[V]) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// clear removes all entries.
func (c *cache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
}

// len reports the number of live entries.
func (c *cache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
