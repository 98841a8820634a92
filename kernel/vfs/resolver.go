package vfs

import "github.com/Mek101/meetixos-sub000/kernel"

// cacheCapacity bounds the number of recently-walked-but-not-kept-open
// nodes VfsResolver remembers, trading memory for avoiding repeated walks
// of hot paths.
const cacheCapacity = 1024

// pathMatcher is implemented identically by PathTable[Node] and
// PathCache[Node]; VfsResolver.Find consults both through this interface
// so the opened-nodes and cached-nodes lookup share one code path.
type pathMatcher interface {
	GetBestMatch(path []string, maxDistance int) Match[Node]
}

// VfsResolver resolves normalized paths to Nodes. It checks, in order: the
// table of permanently opened nodes, the LRU cache of recently resolved
// nodes, and finally walks down from the nearest ancestor it found in
// either — never from the filesystem root unless nothing closer is known.
type VfsResolver struct {
	roots  *PathTable[Filesystem]
	opened *PathTable[Node]
	cached *PathCache[Node]
}

// NewVfsResolver constructs an empty VfsResolver with no mounted
// filesystems.
func NewVfsResolver() *VfsResolver {
	return &VfsResolver{
		roots:  NewPathTable[Filesystem](),
		opened: NewPathTable[Node](),
		cached: NewPathCache[Node](cacheCapacity),
	}
}

// Mount records fs as the filesystem backing everything at and below path.
// path must not already have a filesystem mounted exactly at it.
func (r *VfsResolver) Mount(path []string, fs Filesystem) *kernel.Error {
	if _, ok := r.roots.GetExact(path); ok {
		return ErrAlreadyMounted
	}
	r.roots.Set(path, fs)
	return nil
}

// Unmount removes the filesystem mounted exactly at path.
func (r *VfsResolver) Unmount(path []string) *kernel.Error {
	if !r.roots.Remove(path) {
		return ErrNotMounted
	}
	return nil
}

// Open records node as permanently resolvable at path without further
// lookups or eviction, bypassing the LRU cache entirely.
func (r *VfsResolver) Open(path []string, node Node) {
	r.opened.Set(path, node)
}

// Close removes a node previously registered with Open.
func (r *VfsResolver) Close(path []string) bool {
	return r.opened.Remove(path)
}

// Find resolves path to the Node it names. path is a sequence of
// already-normalized components (no "." or ".."); an empty path resolves
// to the root filesystem's root node.
func (r *VfsResolver) Find(path []string) (Node, *kernel.Error) {
	for _, c := range path {
		if c == "" {
			return nil, ErrInvalidPath
		}
	}

	mount := r.roots.GetBestMatch(path, len(path))
	if mount.Kind == NoMatch {
		return nil, ErrNotFound
	}

	nearestNode := mount.Value.RootNode()
	nearestDistance := 0
	if mount.Kind == AncestorMatch {
		nearestDistance = mount.Distance
	}

	for _, matcher := range [...]pathMatcher{r.opened, r.cached} {
		m := matcher.GetBestMatch(path, nearestDistance)
		switch m.Kind {
		case ExactMatch:
			return m.Value, nil
		case AncestorMatch:
			if m.Distance < nearestDistance {
				nearestNode = m.Value
				nearestDistance = m.Distance
			}
		}
	}

	if nearestDistance == 0 {
		return nearestNode, nil
	}

	remaining := path[len(path)-nearestDistance:]
	parent, err := descend(nearestNode, remaining[:len(remaining)-1])
	if err != nil {
		return nil, err
	}

	node, err := descend(parent, remaining[len(remaining)-1:])
	if err != nil {
		return nil, err
	}

	// The target itself is never cached; only walks that crossed at least
	// one directory beyond the parent are worth remembering, so a lookup
	// one level below an already-cached/opened ancestor doesn't touch the
	// write lock for no benefit.
	if nearestDistance > 1 {
		r.cached.Set(path[:len(path)-1], parent)
	}

	return node, nil
}

// descend walks start through each named child in remaining, in order.
func descend(start Node, remaining []string) (Node, *kernel.Error) {
	current := start
	for _, name := range remaining {
		dir, ok := current.(DirectoryNode)
		if !ok || current.Type() != NodeDirectory {
			return nil, ErrNotADirectory
		}
		children, err := dir.Children()
		if err != nil {
			return nil, ErrNotFound
		}

		var next Node
		for _, c := range children {
			if c.Name() == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil, ErrNotFound
		}
		current = next
	}
	return current, nil
}
