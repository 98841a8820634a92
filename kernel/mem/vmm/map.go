package vmm

import (
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	"github.com/Mek101/meetixos-sub000/kernel/mem/pmm"
)

// MapSingle installs a mapping from virt to a physical frame with flags,
// allocating any missing intermediate tables from alloc. virt must already
// be aligned to the size class S; callers are expected to align it via
// mem.VirtAddr.AlignedDown before calling.
//
// When flags requests FlagPresent, frame may be pmm.InvalidFrame[S]() to
// have MapSingle ask alloc for the data frame itself, failing with
// ErrPhysAllocFailed if none is available. When flags does not request
// FlagPresent, MapSingle asks alloc only for missing intermediate tables,
// never for a data frame, and writes a demand-paging record instead: the
// given flags with no backing frame (address zero),
// to be resolved into a present mapping later by the page fault handler.
func MapSingle[S pmm.SizeClass](pd *PageDir, alloc pmm.FrameAllocator[pmm.Size4KiB], virt mem.VirtAddr, frame pmm.Frame[S], flags PageTableEntryFlag) (MapFlush, error) {
	target := targetLevel[S]()
	table := pd.tableAt(pd.rootFrame)

	for level := uint8(4); level > target; level-- {
		idx := virt.TableIndex(level)
		next, err := ensureNextTable(pd, table, idx, alloc)
		if err != nil {
			return MapFlush{}, err
		}
		table = next
	}

	idx := virt.TableIndex(target)
	entry := &table.Entries[idx]
	if entry.HasFlags(FlagPresent) {
		return MapFlush{}, ErrPageAlreadyMapped
	}

	if flags&FlagPresent == 0 {
		entry.SetFlags(flags)
		return newMapFlush(virt), nil
	}

	if !frame.IsValid() {
		allocated, allocErr := alloc.AllocPage()
		if allocErr != nil {
			return MapFlush{}, ErrPhysAllocFailed
		}
		dataFrame, ok := pmm.NewFrame[S](allocated.Address())
		if !ok {
			return MapFlush{}, ErrPhysAllocFailed
		}
		frame = dataFrame
	}

	entry.SetFrame(frame.Address())
	entry.SetFlags(flags)
	if isHuge[S]() {
		entry.SetFlags(FlagHugePage)
	}

	return newMapFlush(virt), nil
}

// UnmapSingle removes the mapping at virt and returns the frame it used to
// point to. It fails with ErrPartialHugePageUnmap if virt falls inside a
// huge page of a different size class than S.
func UnmapSingle[S pmm.SizeClass](pd *PageDir, virt mem.VirtAddr) (pmm.Frame[S], MapFlush, error) {
	target := targetLevel[S]()

	table, idx, err := descend(pd, virt, target)
	if err != nil {
		return pmm.InvalidFrame[S](), MapFlush{}, err
	}

	entry := &table.Entries[idx]
	if !entry.HasFlags(FlagPresent) {
		return pmm.InvalidFrame[S](), MapFlush{}, ErrPageNotMapped
	}
	if isHuge[S]() != entry.HasFlags(FlagHugePage) {
		return pmm.InvalidFrame[S](), MapFlush{}, ErrPartialHugePageUnmap
	}

	frame, _ := pmm.NewFrame[S](entry.Frame().Address())
	*entry = 0

	return frame, newMapFlush(virt), nil
}

// FlagsOf returns the flags currently set on the mapping at virt, without
// disturbing it. The result includes FlagPresent, and FlagHugePage for a
// 2 MiB or 1 GiB mapping; the frame address bits are masked out.
func FlagsOf[S pmm.SizeClass](pd *PageDir, virt mem.VirtAddr) (PageTableEntryFlag, error) {
	target := targetLevel[S]()

	table, idx, err := descend(pd, virt, target)
	if err != nil {
		return 0, err
	}

	entry := table.Entries[idx]
	if !entry.HasFlags(FlagPresent) {
		return 0, ErrPageNotMapped
	}

	return PageTableEntryFlag(uint64(entry) &^ ptePhysPageMask), nil
}

// MapRange maps every S-sized frame in the half-open range [virt, virt+n*S)
// to the correspondingly offset frames starting at first, rolling back any
// partial progress if an allocation or an already-mapped page is hit partway
// through.
func MapRange[S pmm.SizeClass](pd *PageDir, alloc pmm.FrameAllocator[pmm.Size4KiB], virt mem.VirtAddr, first pmm.Frame[S], n uint64, flags PageTableEntryFlag) (MapRangeFlush, error) {
	if n == 0 {
		return MapRangeFlush{}, ErrEmptyRange
	}

	step := sizeOf[S]()
	mapped := make([]mem.VirtAddr, 0, n)

	for i := uint64(0); i < n; i++ {
		v := virt.Add(uint64(step) * i)
		f := first.Add(int64(i))

		flush, err := MapSingle(pd, alloc, v, f, flags)
		if err != nil {
			for _, undo := range mapped {
				UnmapSingle[S](pd, undo)
			}
			return MapRangeFlush{}, err
		}
		flush.consumed = true
		mapped = append(mapped, v)
	}

	return newMapRangeFlush(mapped), nil
}

// UnmapRange removes the mappings of n consecutive S-sized pages starting
// at virt.
func UnmapRange[S pmm.SizeClass](pd *PageDir, virt mem.VirtAddr, n uint64) (MapRangeFlush, error) {
	if n == 0 {
		return MapRangeFlush{}, ErrEmptyRange
	}

	step := sizeOf[S]()
	addrs := make([]mem.VirtAddr, 0, n)

	for i := uint64(0); i < n; i++ {
		v := virt.Add(uint64(step) * i)
		_, flush, err := UnmapSingle[S](pd, v)
		if err != nil {
			return MapRangeFlush{}, err
		}
		flush.consumed = true
		addrs = append(addrs, v)
	}

	return newMapRangeFlush(addrs), nil
}

func sizeOf[S pmm.SizeClass]() mem.Size {
	var s S
	return s.Bytes()
}
