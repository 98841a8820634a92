package vfs

import (
	"sort"

	ksync "github.com/Mek101/meetixos-sub000/kernel/sync"
)

// MatchKind distinguishes the outcomes a path lookup can report.
type MatchKind uint8

const (
	NoMatch MatchKind = iota
	ExactMatch
	AncestorMatch
)

// Match is the result of GetNearestAncestor or GetBestMatch: for
// AncestorMatch, Distance is the number of path components separating the
// queried path from Value's path.
type Match[V any] struct {
	Kind     MatchKind
	Value    V
	Distance int
}

type pathEntry[V any] struct {
	key   PathKey
	value V
}

// PathTable is an ordered map from normalized paths to values of type V. It
// supports exact lookup plus "nearest mapped ancestor" queries, the
// operation VfsResolver uses to find which mounted filesystem, opened
// node, or cached node owns a path with no exact entry of its own.
//
// The reference implementation this is ported from keeps its path index in
// an inverted-order BTreeMap so a single bounded range scan finds the
// nearest ancestor; no ordered-map structure is available to reach for
// here, so PathTable keeps a plain sorted slice (insertion and removal are
// O(n), exact lookup is O(log n), and ancestor lookup falls back to an
// O(n) scan bounded only by maxDistance). This trades asymptotic lookup
// cost for simplicity; acceptable given a kernel's path table holds a
// small, bounded number of mountpoints and permanently opened nodes.
type PathTable[V any] struct {
	mu      ksync.Spinlock
	entries []pathEntry[V]
}

// NewPathTable constructs an empty PathTable.
func NewPathTable[V any]() *PathTable[V] {
	return &PathTable[V]{}
}

func (t *PathTable[V]) search(raw string) int {
	return sort.Search(len(t.entries), func(i int) bool { return t.entries[i].key.raw >= raw })
}

// Set inserts or overwrites the value stored at path.
func (t *PathTable[V]) Set(path []string, value V) {
	key := NewPathKey(path)

	t.mu.Acquire()
	defer t.mu.Release()

	i := t.search(key.raw)
	if i < len(t.entries) && t.entries[i].key.raw == key.raw {
		t.entries[i].value = value
		return
	}

	t.entries = append(t.entries, pathEntry[V]{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = pathEntry[V]{key: key, value: value}
}

// GetExact returns the value stored at exactly path, if any.
func (t *PathTable[V]) GetExact(path []string) (V, bool) {
	key := NewPathKey(path)

	t.mu.Acquire()
	defer t.mu.Release()

	i := t.search(key.raw)
	if i < len(t.entries) && t.entries[i].key.raw == key.raw {
		return t.entries[i].value, true
	}
	var zero V
	return zero, false
}

// GetNearestAncestor returns the entry whose path is the closest strict
// ancestor of path, within maxDistance path components.
func (t *PathTable[V]) GetNearestAncestor(path []string, maxDistance int) Match[V] {
	return t.scan(NewPathKey(path), maxDistance, false)
}

// GetBestMatch returns the exact entry at path if one exists, falling back
// to GetNearestAncestor otherwise.
func (t *PathTable[V]) GetBestMatch(path []string, maxDistance int) Match[V] {
	return t.scan(NewPathKey(path), maxDistance, true)
}

func (t *PathTable[V]) scan(key PathKey, maxDistance int, allowExact bool) Match[V] {
	t.mu.Acquire()
	defer t.mu.Release()

	i := t.search(key.raw)
	if allowExact && i < len(t.entries) && t.entries[i].key.raw == key.raw {
		return Match[V]{Kind: ExactMatch, Value: t.entries[i].value}
	}

	best := -1
	for j := 0; j < i; j++ {
		cand := t.entries[j]
		distance := key.separators - cand.key.separators
		if distance <= 0 || distance > maxDistance {
			continue
		}
		if !cand.key.IsAncestorOf(key) {
			continue
		}
		if best == -1 || cand.key.separators > t.entries[best].key.separators {
			best = j
		}
	}

	if best == -1 {
		return Match[V]{}
	}
	return Match[V]{
		Kind:     AncestorMatch,
		Value:    t.entries[best].value,
		Distance: key.separators - t.entries[best].key.separators,
	}
}

// Remove deletes the entry at exactly path, reporting whether one existed.
func (t *PathTable[V]) Remove(path []string) bool {
	key := NewPathKey(path)

	t.mu.Acquire()
	defer t.mu.Release()

	i := t.search(key.raw)
	if i >= len(t.entries) || t.entries[i].key.raw != key.raw {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return true
}
