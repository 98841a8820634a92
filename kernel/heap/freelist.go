package heap

import (
	"unsafe"

	"github.com/Mek101/meetixos-sub000/kernel/mem"
)

// holeNode is written into the first bytes of a free region: its own size,
// and a pointer to the next hole in ascending-address order. Free regions
// must therefore be at least sizeof(holeNode) bytes, which alignRequest
// enforces.
type holeNode struct {
	size mem.Size
	next *holeNode
}

const holeHeaderSize = mem.Size(unsafe.Sizeof(holeNode{}))
const holeAlign = mem.Size(unsafe.Alignof(holeNode{}))

// FreeList is a first-fit, address-ordered linked list of free regions. It
// serves allocation requests too large, or too oddly aligned, for any fixed
// slab class, splitting and coalescing holes as memory comes and goes.
type FreeList struct {
	// first is a sentinel with size 0; first.next is the first real hole.
	first holeNode
}

func newFreeList(base mem.VirtAddr, size mem.Size) *FreeList {
	l := &FreeList{}
	if size > 0 {
		l.addRegion(base, size)
	}
	return l
}

func holeAt(addr mem.VirtAddr) *holeNode {
	return (*holeNode)(unsafe.Pointer(uintptr(addr)))
}

func holeAddr(h *holeNode) mem.VirtAddr {
	return mem.VirtAddr(uintptr(unsafe.Pointer(h)))
}

// alignRequest rounds size up so the freed block can always host a
// holeNode header, and aligns it to the header's own alignment.
func alignRequest(size mem.Size) mem.Size {
	if size < holeHeaderSize {
		size = holeHeaderSize
	}
	return size.RoundUp(holeAlign)
}

// Alloc returns the first hole that fits size at the requested alignment,
// splitting off any leading padding or trailing remainder. A fragment of at
// least holeHeaderSize bytes goes back into the list; a smaller one is
// dropped.
func (l *FreeList) Alloc(size, align mem.Size) (mem.VirtAddr, bool) {
	size = alignRequest(size)

	prev := &l.first
	for cur := prev.next; cur != nil; prev, cur = cur, cur.next {
		start := holeAddr(cur).AlignedUp(align)
		padding := mem.Size(uint64(start) - uint64(holeAddr(cur)))

		if cur.size < padding+size {
			continue
		}

		tailSize := cur.size - padding - size
		prev.next = cur.next

		// A padding fragment smaller than holeHeaderSize cannot host a
		// holeNode header without overrunning into the block being
		// returned at start; such a fragment is unusable and stays
		// carved out of the list for good.
		if padding >= holeHeaderSize {
			l.addRegion(holeAddr(cur), padding)
		}
		if tailSize >= holeHeaderSize {
			l.addRegion(start.Add(uint64(size)), tailSize)
		}
		return start, true
	}

	return 0, false
}

// Free returns addr..addr+size to the list, merging it with an immediately
// adjacent hole on either side.
func (l *FreeList) Free(addr mem.VirtAddr, size mem.Size) {
	l.addRegion(addr, alignRequest(size))
}

// addRegion inserts base..base+size into the list in address order,
// coalescing with its predecessor and successor when the regions are
// physically contiguous.
func (l *FreeList) addRegion(base mem.VirtAddr, size mem.Size) {
	prev := &l.first
	for prev.next != nil && holeAddr(prev.next) < base {
		prev = prev.next
	}

	if prev != &l.first && holeAddr(prev).Add(uint64(prev.size)) == base {
		prev.size += size
	} else {
		node := holeAt(base)
		*node = holeNode{size: size, next: prev.next}
		prev.next = node
		prev = node
	}

	if prev.next != nil && holeAddr(prev).Add(uint64(prev.size)) == holeAddr(prev.next) {
		next := prev.next
		prev.size += next.size
		prev.next = next.next
	}
}
