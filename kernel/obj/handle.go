package obj

import (
	"github.com/Mek101/meetixos-sub000/kernel"
	ksync "github.com/Mek101/meetixos-sub000/kernel/sync"
)

// Handle references a kernel-managed resource across the syscall boundary.
// It carries no type information of its own; the permission bits recorded
// against it were stamped from a Grants[T] at Register time.
type Handle uint32

// InvalidHandle is never returned by Register and never resolves through
// Lookup.
const InvalidHandle Handle = 0

var (
	// ErrInvalidHandle is returned when a Handle does not name a
	// currently registered resource.
	ErrInvalidHandle = &kernel.Error{Module: "obj", Message: "invalid object handle"}
)

// Resource is the kernel-side value a Handle stands for: an open file, a
// directory, an IPC channel endpoint and so on. The registry treats it
// opaquely; callers recover its concrete type themselves.
type Resource any

// entry is one row of a Registry: the resource a handle names, its
// permission bits (flattened from whatever Grants[T] produced them) and
// the set of uses currently being watched, plus a reference count so
// Dup/Drop can share one handle across multiple owning tasks.
type entry struct {
	resource  Resource
	grants    uint32
	watchMask Use
	refs      int
}

// Registry maps Handles to the resources they name. One Registry exists
// per kernel instance; NewRegistry is exported so tests can build
// independent ones instead of sharing global state.
type Registry struct {
	mu      ksync.RWSpinlock
	entries map[Handle]*entry
	next    Handle
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Handle]*entry)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by the running kernel instance.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds resource to the registry with the given permission bits
// and returns the new Handle with one reference held.
func (r *Registry) Register(resource Resource, grants uint32) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	h := r.next
	r.entries[h] = &entry{resource: resource, grants: grants, refs: 1}
	return h
}

// Lookup returns the resource h names.
func (r *Registry) Lookup(h Handle) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[h]
	if !ok {
		return nil, false
	}
	return e.resource, true
}

// Grants returns the raw permission bits stamped on h.
func (r *Registry) Grants(h Handle) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[h]
	if !ok {
		return 0, false
	}
	return e.grants, true
}

// SetGrants replaces the permission bits stamped on h.
func (r *Registry) SetGrants(h Handle, grants uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return false
	}
	e.grants = grants
	return true
}

// Watch adds uses to the set of events watched on h.
func (r *Registry) Watch(h Handle, uses Use) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return false
	}
	e.watchMask = e.watchMask.With(uses)
	return true
}

// Unwatch removes uses from the set of events watched on h.
func (r *Registry) Unwatch(h Handle, uses Use) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return false
	}
	e.watchMask = e.watchMask.Without(uses)
	return true
}

// WatchMask returns the set of events currently watched on h.
func (r *Registry) WatchMask(h Handle) (Use, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[h]
	if !ok {
		return 0, false
	}
	return e.watchMask, true
}

// Dup adds a reference to h, as when a second task obtains the same
// handle through IPC. It reports whether h was valid.
func (r *Registry) Dup(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return false
	}
	e.refs++
	return true
}

// Drop releases one reference to h, removing it from the registry once
// its reference count reaches zero. It reports whether the handle was
// removed as a result of this call.
func (r *Registry) Drop(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return false
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, h)
		return true
	}
	return false
}

// Count returns the number of currently registered handles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
