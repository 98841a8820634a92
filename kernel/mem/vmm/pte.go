// Package vmm implements the four-level paging-based virtual memory
// manager: a page directory walker supporting 4 KiB, 2 MiB and 1 GiB
// mappings, and the kernel virtual-address-space layout planner.
package vmm

import (
	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	"github.com/Mek101/meetixos-sub000/kernel/mem/pmm"
)

// PageTableEntryFlag describes a flag that can be applied to a page table
// entry. The underlying representation is architecture-dependent; this one
// follows the amd64 PTE layout.
type PageTableEntryFlag uint64

const (
	// FlagPresent is set when the page is available in memory and not
	// swapped out. A present=false entry may still carry other flags,
	// recording a demand-paging mapping.
	FlagPresent PageTableEntryFlag = 1 << iota
	// FlagReadable marks the page as readable. Kept distinct from
	// FlagPresent so demand-paged (not-yet-present) entries can still
	// record intended access rights.
	FlagReadable
	// FlagWriteable marks the page as writable.
	FlagWriteable
	// FlagUser marks the page as accessible to user-mode code.
	FlagUser
	// FlagGlobal prevents the TLB from flushing this entry's cached
	// translation on a CR3 switch.
	FlagGlobal
	// FlagHugePage marks a level 3 or level 2 entry as a terminal huge
	// mapping (1 GiB or 2 MiB respectively), ending the walk early.
	FlagHugePage
	// FlagAccessed is set by the CPU when the page is accessed.
	FlagAccessed
	// FlagDirty is set by the CPU when the page is written to.
	FlagDirty
	// FlagNoExecute marks the page as containing non-executable data.
	FlagNoExecute
)

// ptePhysPageMask extracts the physical frame address bits (12-51) from a
// packed page table entry.
const ptePhysPageMask = uint64(0x000ffffffffff000)

// pageTableEntry is a single slot in a PageTable: a packed physical address
// plus a bag of PageTableEntryFlag bits.
type pageTableEntry uint64

// HasFlags reports whether every bit in flags is set on this entry.
func (pte pageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return uint64(pte)&uint64(flags) == uint64(flags)
}

// IsZero reports whether the entry is entirely unused (no address, no
// flags). A non-zero, non-present entry records a demand-paging mapping.
func (pte pageTableEntry) IsZero() bool { return pte == 0 }

// SetFlags ORs flags into the entry.
func (pte *pageTableEntry) SetFlags(flags PageTableEntryFlag) {
	*pte = pageTableEntry(uint64(*pte) | uint64(flags))
}

// ClearFlags clears flags from the entry.
func (pte *pageTableEntry) ClearFlags(flags PageTableEntryFlag) {
	*pte = pageTableEntry(uint64(*pte) &^ uint64(flags))
}

// Frame returns the physical frame this entry points to, interpreted as a
// 4 KiB frame. Callers mapping huge pages reinterpret the address with the
// appropriate pmm.Frame type parameter.
func (pte pageTableEntry) Frame() pmm.Frame[pmm.Size4KiB] {
	addr := mem.PhysAddr(uint64(pte) & ptePhysPageMask)
	f, _ := pmm.NewFrame[pmm.Size4KiB](addr)
	return f
}

// SetFrame updates the entry to point at frame, preserving its flags.
func (pte *pageTableEntry) SetFrame(addr mem.PhysAddr) {
	*pte = pageTableEntry((uint64(*pte) &^ ptePhysPageMask) | uint64(addr))
}

// PageTable is one level of the four-level paging hierarchy: 512 entries,
// 4 KiB aligned.
type PageTable struct {
	Entries [512]pageTableEntry
}

// IsEmpty reports whether every entry in the table is zero.
func (t *PageTable) IsEmpty() bool {
	for _, e := range t.Entries {
		if !e.IsZero() {
			return false
		}
	}
	return true
}

// Errors returned by the page directory walker (spec failure taxonomy).
var (
	ErrPageNotMapped        = &kernel.Error{Module: "vmm", Message: "virtual address is not mapped"}
	ErrPageAlreadyMapped    = &kernel.Error{Module: "vmm", Message: "virtual address is already mapped"}
	ErrEmptyRange           = &kernel.Error{Module: "vmm", Message: "range contains no pages"}
	ErrPhysAllocFailed      = &kernel.Error{Module: "vmm", Message: "physical frame allocation failed"}
	ErrPartialHugePageUnmap = &kernel.Error{Module: "vmm", Message: "cannot partially unmap a huge page"}
	ErrInUseForBigFrame     = &kernel.Error{Module: "vmm", Message: "address is mapped by a huge page; cannot read as a 4KiB entry"}
)
