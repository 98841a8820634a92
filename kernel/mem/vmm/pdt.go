package vmm

import (
	"unsafe"

	"github.com/Mek101/meetixos-sub000/kernel/mem"
	"github.com/Mek101/meetixos-sub000/kernel/mem/pmm"
)

var (
	// tableAtFn resolves a page-table frame to a pointer to its contents,
	// by adding the page directory's linear phys_offset to the frame's
	// physical address. Tests substitute an in-memory table registry so
	// package logic can be exercised without real MMU-backed memory.
	tableAtFn = func(frame pmm.Frame[pmm.Size4KiB], physOffset mem.VirtAddr) *PageTable {
		return (*PageTable)(unsafe.Pointer(uintptr(physOffset.Add(uint64(frame.Address())))))
	}

	// activatePDTFn is the hook Activate hands the root table address to.
	// Its default does nothing and no code in the tree assigns another
	// implementation, so no page directory base register is loaded.
	activatePDTFn = func(root mem.PhysAddr) {}
)

// PageDir is an owning handle over a root level-4 table frame plus the
// fixed virtual base (phys_offset) at which all physical memory is linearly
// mapped, so intermediate tables can be reached by adding phys_offset to a
// physical-frame address.
type PageDir struct {
	rootFrame  pmm.Frame[pmm.Size4KiB]
	physOffset mem.VirtAddr
}

// NewPageDir wraps an existing root table frame. The frame must already be
// zeroed and mapped at physOffset by the caller (the architecture bootstrap
// code, out of scope here).
func NewPageDir(root pmm.Frame[pmm.Size4KiB], physOffset mem.VirtAddr) *PageDir {
	return &PageDir{rootFrame: root, physOffset: physOffset}
}

// RootPhysFrame returns the physical frame backing the top-level table.
func (pd *PageDir) RootPhysFrame() pmm.Frame[pmm.Size4KiB] { return pd.rootFrame }

// PhysMemOffset returns the linear physical-memory mapping base used to
// dereference intermediate page tables.
func (pd *PageDir) PhysMemOffset() mem.VirtAddr { return pd.physOffset }

// Activate passes the root table frame's address to activatePDTFn, which by
// default does nothing.
func (pd *PageDir) Activate() { activatePDTFn(pd.rootFrame.Address()) }

// tableAt returns a pointer to the contents of the page table stored in
// frame, via the linear physical-memory mapping.
func (pd *PageDir) tableAt(frame pmm.Frame[pmm.Size4KiB]) *PageTable {
	return tableAtFn(frame, pd.physOffset)
}

// targetLevel returns the page-table level at which a mapping of size S
// terminates: 1 for 4 KiB (the leaf level), 2 for 2 MiB, 3 for 1 GiB.
func targetLevel[S pmm.SizeClass]() uint8 {
	var s S
	switch any(s).(type) {
	case pmm.Size4KiB:
		return 1
	case pmm.Size2MiB:
		return 2
	case pmm.Size1GiB:
		return 3
	default:
		panic("vmm: unsupported frame size class")
	}
}

// isHuge reports whether S terminates the walk before the leaf level.
func isHuge[S pmm.SizeClass]() bool { return targetLevel[S]() != 1 }
