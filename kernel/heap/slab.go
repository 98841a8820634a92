// Package heap implements the kernel's dynamic memory allocator: a set of
// fixed-size slab pools for small, well-aligned requests, and a first-fit
// free list for everything else.
package heap

import (
	"unsafe"

	"github.com/Mek101/meetixos-sub000/kernel/mem"
)

// slabFreeNode is overlaid on a free block's first machine word to link it
// into the slab's free list. Every slab class is at least 64 bytes, large
// enough to host one pointer, so the free list never needs out-of-band
// storage.
type slabFreeNode struct {
	next *slabFreeNode
}

// Slab is a fixed-size-block pool: every block handed out or returned is
// exactly blockSize bytes, so both Alloc and Free are O(1) free-list
// operations with no search and no fragmentation within the pool.
type Slab struct {
	blockSize mem.Size
	free      *slabFreeNode
}

func newSlab(blockSize mem.Size) *Slab {
	return &Slab{blockSize: blockSize}
}

func nodeAt(addr mem.VirtAddr) *slabFreeNode {
	return (*slabFreeNode)(unsafe.Pointer(uintptr(addr)))
}

func addrOf(n *slabFreeNode) mem.VirtAddr {
	return mem.VirtAddr(uintptr(unsafe.Pointer(n)))
}

// BlockSize returns the fixed block size this pool serves.
func (s *Slab) BlockSize() mem.Size { return s.blockSize }

// Alloc pops one block off the free list, or reports false if the pool is
// currently exhausted.
func (s *Slab) Alloc() (mem.VirtAddr, bool) {
	if s.free == nil {
		return 0, false
	}
	n := s.free
	s.free = n.next
	return addrOf(n), true
}

// Free pushes a previously allocated block back onto the free list. addr
// must have come from this same Slab's Alloc or AddRegion.
func (s *Slab) Free(addr mem.VirtAddr) {
	n := nodeAt(addr)
	n.next = s.free
	s.free = n
}

// AddRegion slices base..base+size into blockSize-sized blocks and pushes
// each one onto the free list. Any remainder smaller than one block is
// returned so the caller can hand it to another pool instead of losing it.
func (s *Slab) AddRegion(base mem.VirtAddr, size mem.Size) (leftoverBase mem.VirtAddr, leftoverSize mem.Size) {
	count := uint64(size) / uint64(s.blockSize)
	for i := uint64(0); i < count; i++ {
		s.Free(base.Add(i * uint64(s.blockSize)))
	}
	used := mem.Size(count) * s.blockSize
	return base.Add(uint64(used)), size - used
}
