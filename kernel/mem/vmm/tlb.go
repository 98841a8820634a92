package vmm

import (
	"runtime"

	"github.com/Mek101/meetixos-sub000/kernel/mem"
)

var (
	// flushTLBEntryFn is the hook Flush calls for each address whose TLB
	// entry is stale. Its default does nothing and no code in the tree
	// assigns another implementation, so Flush does not invalidate any
	// hardware TLB entry.
	flushTLBEntryFn = func(addr mem.VirtAddr) {}

	// leakedFlushFn is called when a MapFlush or MapRangeFlush is garbage
	// collected without having been consumed. Its default does nothing and
	// no code in the tree assigns another implementation.
	leakedFlushFn = func(msg string) {}
)

// MapFlush is a single-use token returned by MapSingle and UnmapSingle: the
// page table has been updated, but the TLB on the current core may still
// hold a stale translation until Flush is called. Go has no linear types to
// enforce this at compile time, so a finalizer flags tokens dropped without
// being consumed as a best-effort leak check.
type MapFlush struct {
	addr     mem.VirtAddr
	consumed bool
}

func newMapFlush(addr mem.VirtAddr) MapFlush {
	f := MapFlush{addr: addr}
	runtime.SetFinalizer(&f, func(f *MapFlush) {
		if !f.consumed {
			leakedFlushFn("vmm: MapFlush dropped without being flushed")
		}
	})
	return f
}

// Flush invalidates the stale TLB entry. It is idempotent: calling it more
// than once, or on a zero-value MapFlush, is a no-op.
func (f *MapFlush) Flush() {
	if f.consumed {
		return
	}
	flushTLBEntryFn(f.addr)
	f.consumed = true
}

// MapRangeFlush is the MapFlush analogue for MapRange/UnmapRange: one token
// batching the TLB invalidation of every page in the range.
type MapRangeFlush struct {
	addrs    []mem.VirtAddr
	consumed bool
}

func newMapRangeFlush(addrs []mem.VirtAddr) MapRangeFlush {
	f := MapRangeFlush{addrs: addrs}
	runtime.SetFinalizer(&f, func(f *MapRangeFlush) {
		if !f.consumed {
			leakedFlushFn("vmm: MapRangeFlush dropped without being flushed")
		}
	})
	return f
}

// Flush invalidates every stale TLB entry covered by the range.
func (f *MapRangeFlush) Flush() {
	if f.consumed {
		return
	}
	for _, addr := range f.addrs {
		flushTLBEntryFn(addr)
	}
	f.consumed = true
}
