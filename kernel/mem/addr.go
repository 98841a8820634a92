package mem

// PhysAddr is an opaque wrapper over a 64-bit physical address. Only the low
// 52 bits are meaningful on amd64; higher bits are always zero.
type PhysAddr uint64

// PageOffset returns the offset of addr within its containing 4 KiB page.
func (addr PhysAddr) PageOffset() uint64 {
	return uint64(addr) & uint64(PageSize-1)
}

// AlignedDown rounds addr down to the nearest multiple of align, which must
// be a power of two.
func (addr PhysAddr) AlignedDown(align Size) PhysAddr {
	return PhysAddr(uint64(addr) &^ (uint64(align) - 1))
}

// AlignedUp rounds addr up to the nearest multiple of align, which must be a
// power of two.
func (addr PhysAddr) AlignedUp(align Size) PhysAddr {
	return PhysAddr((uint64(addr) + uint64(align) - 1) &^ (uint64(align) - 1))
}

// IsAligned reports whether addr is a multiple of align, which must be a
// power of two.
func (addr PhysAddr) IsAligned(align Size) bool {
	return uint64(addr)&(uint64(align)-1) == 0
}

// signExtendBit is the bit whose value is replicated into bits 48-63 of a
// canonical amd64 virtual address.
const signExtendBit = uint64(1) << 47

// canonicalHighMask covers bits 48-63, which must equal the sign-extension
// of bit 47 for an address to be canonical.
const canonicalHighMask = uint64(0xFFFF) << 48

// VirtAddr is an opaque wrapper over a 64-bit canonical virtual address: the
// top 16 bits are always the sign-extension of bit 47.
type VirtAddr uint64

// Canonicalize returns addr with bits 48-63 re-established as the
// sign-extension of bit 47. Arithmetic on a VirtAddr (e.g. adding a page
// offset that overflows into bit 48) must be followed by Canonicalize before
// the result is used as a page-table walk input.
func (addr VirtAddr) Canonicalize() VirtAddr {
	v := uint64(addr) &^ canonicalHighMask
	if v&signExtendBit != 0 {
		v |= canonicalHighMask
	}
	return VirtAddr(v)
}

// IsCanonical reports whether addr already satisfies the canonical-address
// invariant.
func (addr VirtAddr) IsCanonical() bool {
	return addr == addr.Canonicalize()
}

// PageOffset returns the offset of addr within its containing 4 KiB page
// (the low 12 bits).
func (addr VirtAddr) PageOffset() uint64 {
	return uint64(addr) & uint64(PageSize-1)
}

// pageLevelShift returns the bit position at which the index for the given
// page-table level (4 = top, 1 = leaf) begins.
func pageLevelShift(level uint8) uint {
	return uint(12 + 9*(level-1))
}

// TableIndex returns the 9-bit index into the page-table for the given
// level (4, 3, 2 or 1) that addr resolves through.
func (addr VirtAddr) TableIndex(level uint8) uint16 {
	return uint16((uint64(addr) >> pageLevelShift(level)) & 0x1FF)
}

// AlignedDown rounds addr down to the nearest multiple of align, which must
// be a power of two, re-canonicalizing the result.
func (addr VirtAddr) AlignedDown(align Size) VirtAddr {
	return VirtAddr(uint64(addr) &^ (uint64(align) - 1)).Canonicalize()
}

// AlignedUp rounds addr up to the nearest multiple of align, which must be a
// power of two, re-canonicalizing the result.
func (addr VirtAddr) AlignedUp(align Size) VirtAddr {
	return VirtAddr((uint64(addr) + uint64(align) - 1) &^ (uint64(align) - 1)).Canonicalize()
}

// IsAligned reports whether addr is a multiple of align, which must be a
// power of two.
func (addr VirtAddr) IsAligned(align Size) bool {
	return uint64(addr)&(uint64(align)-1) == 0
}

// Add returns addr+delta, re-canonicalized.
func (addr VirtAddr) Add(delta uint64) VirtAddr {
	return VirtAddr(uint64(addr) + delta).Canonicalize()
}
