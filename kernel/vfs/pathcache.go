package vfs

import (
	"container/list"

	ksync "github.com/Mek101/meetixos-sub000/kernel/sync"
)

// cacheEntry is the payload stored in each container/list element: the key
// it was filed under, plus the resolved value.
type cacheEntry[V any] struct {
	key   PathKey
	value V
}

// PathCache is a capacity-bounded, least-recently-used cache from
// normalized paths to values of type V, used by VfsResolver to remember
// recently walked directory nodes without pinning the entire VFS tree in
// memory. The reference implementation backs its cache with an intrusive
// red-black tree plus an intrusive doubly-linked list living in a private
// slab; Go has neither intrusive containers nor a pack-provided LRU
// library, so this uses the standard container/list for eviction order and
// a plain map for the index, the closest stdlib equivalent to the
// original's tree+list combination.
//
// Reads (GetExact/GetBestMatch) only ever take the lock's read side to
// check a hit; promoting the hit to MRU order mutates the shared list, so
// it is attempted via TryLock and silently skipped under contention,
// rather than stalling the reader on a writer or on another promotion.
type PathCache[V any] struct {
	mu       ksync.RWSpinlock
	capacity int
	order    *list.List
	index    map[string]*list.Element
}

// NewPathCache constructs an empty PathCache holding at most capacity
// entries.
func NewPathCache[V any](capacity int) *PathCache[V] {
	return &PathCache[V]{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Capacity returns the maximum number of entries the cache will hold.
func (c *PathCache[V]) Capacity() int { return c.capacity }

// Count returns the number of entries currently cached.
func (c *PathCache[V]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Set inserts or overwrites the value cached at path, evicting the least
// recently used entry first if the cache is already at capacity.
func (c *PathCache[V]) Set(path []string, value V) {
	key := NewPathKey(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key.raw]; ok {
		el.Value.(*cacheEntry[V]).value = value
		c.order.MoveToFront(el)
		return
	}

	for c.order.Len() >= c.capacity && c.capacity > 0 {
		c.evictLocked()
	}
	if c.capacity == 0 {
		return
	}

	el := c.order.PushFront(&cacheEntry[V]{key: key, value: value})
	c.index[key.raw] = el
}

func (c *PathCache[V]) evictLocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	c.order.Remove(back)
	delete(c.index, back.Value.(*cacheEntry[V]).key.raw)
}

// promote moves el to the front of the order list if the lock can be
// acquired exclusively without blocking, and is a no-op otherwise. el may
// have been evicted since the caller looked it up: list.Element.MoveToFront
// is already a no-op for an element no longer belonging to the list, so no
// re-check under the lock is needed.
func (c *PathCache[V]) promote(el *list.Element) {
	if !c.mu.TryLock() {
		return
	}
	c.order.MoveToFront(el)
	c.mu.Unlock()
}

// GetExact returns the value cached at exactly path. The hit is promoted to
// most recently used only if doing so does not require blocking.
func (c *PathCache[V]) GetExact(path []string) (V, bool) {
	key := NewPathKey(path)

	c.mu.RLock()
	el, ok := c.index[key.raw]
	var value V
	if ok {
		value = el.Value.(*cacheEntry[V]).value
	}
	c.mu.RUnlock()
	if !ok {
		return value, false
	}

	c.promote(el)
	return value, true
}

// GetBestMatch returns the exact entry at path if cached, or otherwise the
// closest strict ancestor within maxDistance components. A cache hit of
// either kind is promoted to most recently used only if doing so does not
// require blocking.
func (c *PathCache[V]) GetBestMatch(path []string, maxDistance int) Match[V] {
	key := NewPathKey(path)

	c.mu.RLock()
	el, ok := c.index[key.raw]
	if ok {
		value := el.Value.(*cacheEntry[V]).value
		c.mu.RUnlock()
		c.promote(el)
		return Match[V]{Kind: ExactMatch, Value: value}
	}

	var best *list.Element
	bestSeparators := -1
	for e := c.order.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*cacheEntry[V])
		distance := key.separators - entry.key.separators
		if distance <= 0 || distance > maxDistance {
			continue
		}
		if !entry.key.IsAncestorOf(key) {
			continue
		}
		if entry.key.separators > bestSeparators {
			best = e
			bestSeparators = entry.key.separators
		}
	}

	if best == nil {
		c.mu.RUnlock()
		return Match[V]{}
	}
	entry := best.Value.(*cacheEntry[V])
	match := Match[V]{Kind: AncestorMatch, Value: entry.value, Distance: key.separators - entry.key.separators}
	c.mu.RUnlock()

	c.promote(best)
	return match
}

// Remove evicts the entry at exactly path, reporting whether one existed.
func (c *PathCache[V]) Remove(path []string) bool {
	key := NewPathKey(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key.raw]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.index, key.raw)
	return true
}

// Flush empties the cache.
func (c *PathCache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.index = make(map[string]*list.Element)
}
