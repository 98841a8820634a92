package vmm

import "github.com/Mek101/meetixos-sub000/kernel/mem"

// Translate resolves a virtual address to the physical address it is
// currently mapped to, following huge pages transparently. It returns
// ErrPageNotMapped if no translation exists at any level.
func Translate(pd *PageDir, virt mem.VirtAddr) (mem.PhysAddr, error) {
	table, idx, level, err := walkToLeaf(pd, virt)
	if err != nil {
		return 0, err
	}

	entry := table.Entries[idx]
	base := entry.Frame().Address()

	shift := uint(12 + 9*(level-1))
	offsetMask := uint64(1)<<shift - 1

	return mem.PhysAddr(uint64(base) | (uint64(virt) & offsetMask)), nil
}
