package vmm

import (
	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
)

var errEarlyReserveNoSpace = &kernel.Error{Module: "early_reserve", Message: "remaining virtual address space not large enough to satisfy reservation request"}

// earlyReserveCursor tracks the last address handed out by
// EarlyReserveRegion. It starts at the end of KernRegions and is decreased
// after each call, so callers that need backing storage before the kernel
// heap exists (the frame bitmap, the Go runtime's own allocator) can each
// carve out a slice of address space without colliding with the heap, which
// grows upward from the base of the same region.
var earlyReserveCursor mem.VirtAddr

// EarlyReserveRegion reserves a page-aligned, contiguous slice of virtual
// address space of at least size bytes and returns its base address. It
// does not establish any page mapping; the caller maps it with MapSingle
// before use. Should only be used during early kernel initialization,
// before steady-state allocators take over.
func EarlyReserveRegion(size mem.Size) (mem.VirtAddr, *kernel.Error) {
	size = size.RoundUp(mem.PageSize)

	region := Layout().KernRegions
	if earlyReserveCursor == 0 {
		earlyReserveCursor = region.End()
	}

	base := earlyReserveCursor - mem.VirtAddr(size)
	if base < region.Base {
		return 0, errEarlyReserveNoSpace
	}

	earlyReserveCursor = base
	return base, nil
}
