// Package vfs resolves filesystem paths to nodes: an ordered path table for
// mounted filesystem roots and permanently opened nodes, an LRU path cache
// for recently resolved nodes, and a resolver that walks from the nearest
// known ancestor instead of the root on every lookup.
package vfs

import "strings"

// Separator is the path component delimiter used when building a PathKey's
// flattened string form.
const Separator = '/'

// PathKey is the flattened, comparable form of a normalized path: the
// components joined by Separator, plus their count. Two paths compare
// equal iff their component sequences are identical; ancestor relationships
// are prefix relationships on the flattened string terminated by a
// separator, so "/foo" is an ancestor of "/foo/bar" but not of "/foobar".
//
// Callers must normalize path components themselves: PathKey does not
// handle "." or ".." components, nor empty ones.
type PathKey struct {
	raw        string
	separators int
}

// NewPathKey builds a PathKey from a sequence of already-normalized path
// components. An empty slice is the root path.
func NewPathKey(components []string) PathKey {
	var b strings.Builder
	for _, c := range components {
		b.WriteByte(Separator)
		b.WriteString(c)
	}
	return PathKey{raw: b.String(), separators: len(components)}
}

// Separators returns the number of path components that built this key.
func (k PathKey) Separators() int { return k.separators }

// IsAncestorOf reports whether k is a strict ancestor of child.
func (k PathKey) IsAncestorOf(child PathKey) bool {
	if len(child.raw) <= len(k.raw) || !strings.HasPrefix(child.raw, k.raw) {
		return false
	}
	return child.raw[len(k.raw)] == Separator
}
