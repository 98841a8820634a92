package vmm

import (
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	"github.com/Mek101/meetixos-sub000/kernel/mem/pmm"
)

// intermediateFlags are applied to every table created while walking down
// to link a new level; the leaf entry's own flags narrow access down from
// here, so intermediate tables stay maximally permissive.
const intermediateFlags = FlagPresent | FlagReadable | FlagWriteable | FlagUser

// ensureNextTable returns the table one level below index in table,
// allocating and linking a fresh one from alloc if the slot is empty. It
// fails with ErrInUseForBigFrame if the slot is already a huge-page leaf.
func ensureNextTable(pd *PageDir, table *PageTable, index uint16, alloc pmm.FrameAllocator[pmm.Size4KiB]) (*PageTable, error) {
	entry := &table.Entries[index]

	if entry.HasFlags(FlagPresent) {
		if entry.HasFlags(FlagHugePage) {
			return nil, ErrInUseForBigFrame
		}
		return pd.tableAt(entry.Frame()), nil
	}

	frame, err := alloc.AllocPageTable()
	if err != nil {
		return nil, ErrPhysAllocFailed
	}

	next := pd.tableAt(frame)
	*next = PageTable{}

	entry.SetFrame(frame.Address())
	entry.SetFlags(intermediateFlags)

	return next, nil
}

// descend walks from the root table down to (but not including) level
// target, returning the table that owns the target-level slot plus its
// index within it. It never allocates: a missing intermediate table or an
// unexpectedly huge one both fail the walk.
func descend(pd *PageDir, virt mem.VirtAddr, target uint8) (*PageTable, uint16, error) {
	table := pd.tableAt(pd.rootFrame)

	for level := uint8(4); level > target; level-- {
		idx := virt.TableIndex(level)
		entry := &table.Entries[idx]

		if !entry.HasFlags(FlagPresent) {
			return nil, 0, ErrPageNotMapped
		}
		if entry.HasFlags(FlagHugePage) {
			return nil, 0, ErrPartialHugePageUnmap
		}
		table = pd.tableAt(entry.Frame())
	}

	return table, virt.TableIndex(target), nil
}

// walkToLeaf follows virt from the root down to whichever level first
// terminates the walk (a huge-page entry, or an absent entry), returning
// the table owning that entry, its index and the level it was found at.
func walkToLeaf(pd *PageDir, virt mem.VirtAddr) (table *PageTable, index uint16, level uint8, err error) {
	table = pd.tableAt(pd.rootFrame)

	for lvl := uint8(4); lvl >= 1; lvl-- {
		idx := virt.TableIndex(lvl)
		entry := &table.Entries[idx]

		if !entry.HasFlags(FlagPresent) {
			return nil, 0, 0, ErrPageNotMapped
		}
		if lvl == 1 || entry.HasFlags(FlagHugePage) {
			return table, idx, lvl, nil
		}
		table = pd.tableAt(entry.Frame())
	}

	return nil, 0, 0, ErrPageNotMapped
}
