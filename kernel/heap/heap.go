package heap

import (
	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	ksync "github.com/Mek101/meetixos-sub000/kernel/sync"
)

// Threshold is the most bytes a slab allocation may waste before a request
// rolls back to the free list, which allocates the exact size requested at
// the cost of a slower first-fit search.
const Threshold = mem.Size(384)

var slabClasses = [...]mem.Size{64, 128, 256, 512, 1024, 2048, 4096, 8192}

// Supplier is called by a Heap whenever every pool runs dry, to obtain more
// backing memory from the virtual memory manager. It returns the base of a
// freshly mapped region and its actual (page-rounded) size; ok is false if
// no more virtual address space or physical memory is available.
type Supplier func(requested mem.Size) (base mem.VirtAddr, actual mem.Size, ok bool)

var (
	// ErrOutOfMemory is returned when both every pool and the Supplier are
	// exhausted.
	ErrOutOfMemory = &kernel.Error{Module: "heap", Message: "heap and supplier both exhausted"}
)

// Heap is a multi-strategy allocator: eight fixed-size slab pools serve
// small, well-aligned requests in O(1), and a first-fit FreeList serves
// everything else (large allocations, or ones whose alignment would waste
// more than Threshold bytes in the nearest slab class). Every method
// acquires an internal spinlock, so a Heap may be shared across cores.
type Heap struct {
	mu       ksync.Spinlock
	slabs    [len(slabClasses)]*Slab
	list     *FreeList
	supplier Supplier

	obtained mem.Size
	inUse    mem.Size
}

// preferredExtend is the amount of memory requested from the Supplier to
// refill a slab class: enough for 128 blocks, rounded up to a whole page.
func preferredExtend(blockSize mem.Size) mem.Size {
	extend := blockSize * 128
	if extend < mem.PageSize {
		extend = mem.PageSize
	}
	return extend.RoundUp(mem.PageSize)
}

// listPreferredExtend is the default refill size for the free list.
const listPreferredExtend = 8 * mem.Kb

func initialRequest() mem.Size {
	total := mem.Size(0)
	for _, c := range slabClasses {
		total += preferredExtend(c)
	}
	return total + listPreferredExtend
}

// NewHeap constructs a Heap, drawing its first region of backing memory
// from supplier. It fails if the supplier cannot satisfy the initial
// request, which must be large enough to seed every slab class plus a
// starting free-list region.
func NewHeap(supplier Supplier) (*Heap, *kernel.Error) {
	base, size, ok := supplier(initialRequest())
	if !ok {
		return nil, ErrOutOfMemory
	}

	h := &Heap{supplier: supplier, obtained: size}

	cursor := base
	for i, c := range slabClasses {
		h.slabs[i] = newSlab(c)
		leftoverBase, _ := h.slabs[i].AddRegion(cursor, preferredExtend(c))
		cursor = leftoverBase
	}

	remaining := mem.Size(uint64(base) + uint64(size) - uint64(cursor))
	h.list = newFreeList(cursor, remaining)

	return h, nil
}

// selectSlab returns the index of the smallest slab class that fits size
// at alignment align without wasting more than Threshold bytes, or -1 if
// the request belongs on the free list.
func selectSlab(size, align mem.Size) int {
	for i, c := range slabClasses {
		if size > c || align > c {
			continue
		}
		if c-size > Threshold {
			return -1
		}
		return i
	}
	return -1
}

// Alloc reserves size bytes aligned to align, returning ErrOutOfMemory if
// neither the existing pools nor the Supplier can satisfy the request.
func (h *Heap) Alloc(size, align mem.Size) (mem.VirtAddr, *kernel.Error) {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}

	h.mu.Acquire()
	defer h.mu.Release()

	addr, ok := h.allocLocked(size, align)
	if !ok {
		if !h.refillLocked(size, align) {
			return 0, ErrOutOfMemory
		}
		if addr, ok = h.allocLocked(size, align); !ok {
			return 0, ErrOutOfMemory
		}
	}

	h.inUse += size
	return addr, nil
}

// Free releases a block previously returned by Alloc. size and align must
// match the values passed to Alloc: Heap does not track allocation
// metadata of its own, to keep the fast slab path header-free.
func (h *Heap) Free(addr mem.VirtAddr, size, align mem.Size) {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}

	h.mu.Acquire()
	defer h.mu.Release()

	if idx := selectSlab(size, align); idx >= 0 {
		h.slabs[idx].Free(addr)
	} else {
		h.list.Free(addr, size)
	}
	h.inUse -= size
}

func (h *Heap) allocLocked(size, align mem.Size) (mem.VirtAddr, bool) {
	if idx := selectSlab(size, align); idx >= 0 {
		return h.slabs[idx].Alloc()
	}
	return h.list.Alloc(size, align)
}

// refillLocked asks the Supplier for one more extension and feeds it to
// whichever pool would have served size/align, folding any leftover back
// into the free list. It is tried exactly once per Alloc call: a second
// consecutive failure is reported to the caller as ErrOutOfMemory rather
// than retried again.
func (h *Heap) refillLocked(size, align mem.Size) bool {
	idx := selectSlab(size, align)

	want := listPreferredExtend
	if idx >= 0 {
		want = preferredExtend(slabClasses[idx])
	}
	if size > want {
		want = size
	}

	base, got, ok := h.supplier(want)
	if !ok {
		return false
	}
	h.obtained += got

	if idx >= 0 {
		leftoverBase, leftoverSize := h.slabs[idx].AddRegion(base, got)
		if leftoverSize > 0 {
			h.list.Free(leftoverBase, leftoverSize)
		}
	} else {
		h.list.Free(base, got)
	}
	return true
}

// MemoryFromSupplier returns the total memory ever obtained from the
// Supplier.
func (h *Heap) MemoryFromSupplier() mem.Size {
	h.mu.Acquire()
	defer h.mu.Release()
	return h.obtained
}

// MemoryInUse returns the amount of memory currently handed out via Alloc
// and not yet returned via Free.
func (h *Heap) MemoryInUse() mem.Size {
	h.mu.Acquire()
	defer h.mu.Release()
	return h.inUse
}

// MemoryAvailable returns MemoryFromSupplier minus MemoryInUse.
func (h *Heap) MemoryAvailable() mem.Size {
	h.mu.Acquire()
	defer h.mu.Release()
	return h.obtained - h.inUse
}
