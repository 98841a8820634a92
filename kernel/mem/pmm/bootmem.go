package pmm

import "github.com/Mek101/meetixos-sub000/kernel"

var (
	// ErrBootAllocOutOfMemory is returned once the flattened region
	// stream is exhausted.
	ErrBootAllocOutOfMemory = &kernel.Error{Module: "boot_mem_alloc", Message: "out of memory"}
)

// MemoryRegion describes one bootloader-reported available physical memory
// area. Regions are supplied by the out-of-scope boot-info parser.
type MemoryRegion struct {
	Start Frame[Size4KiB]
	End   Frame[Size4KiB] // exclusive
}

// BootFrameAllocator is a rudimentary physical frame allocator used to
// bootstrap the kernel before FrameBitmap is mapped and operational.
//
// It keeps a cursor into the concatenation of boot-provided memory regions,
// flattened into a stream of 4 KiB frame addresses, and hands out the next
// unallocated frame on each call. Freeing is unsupported: once the kernel is
// properly initialized, every frame this allocator handed out is replayed
// into FrameBitmap as reserved and the boot allocator is discarded.
type BootFrameAllocator struct {
	regions []MemoryRegion

	// nextRegion/nextFrame track the allocation cursor across regions.
	nextRegion int
	nextFrame  Frame[Size4KiB]

	allocCount uint64
}

// NewBootFrameAllocator creates a boot allocator over the given available
// memory regions, in the order they should be consumed.
func NewBootFrameAllocator(regions []MemoryRegion) *BootFrameAllocator {
	a := &BootFrameAllocator{regions: regions}
	if len(regions) > 0 {
		a.nextFrame = regions[0].Start
	}
	return a
}

// AllocCount returns the number of frames handed out so far.
func (a *BootFrameAllocator) AllocCount() uint64 { return a.allocCount }

// AllocPage returns the next available frame and advances the cursor.
func (a *BootFrameAllocator) AllocPage() (Frame[Size4KiB], *kernel.Error) {
	for a.nextRegion < len(a.regions) {
		region := a.regions[a.nextRegion]
		if a.nextFrame.Address() >= region.End.Address() {
			a.nextRegion++
			if a.nextRegion < len(a.regions) {
				a.nextFrame = a.regions[a.nextRegion].Start
			}
			continue
		}

		frame := a.nextFrame
		a.nextFrame = a.nextFrame.Add(1)
		a.allocCount++
		return frame, nil
	}

	return InvalidFrame[Size4KiB](), ErrBootAllocOutOfMemory
}

// FreePage is a no-op: the boot allocator cannot free frames.
func (a *BootFrameAllocator) FreePage(Frame[Size4KiB]) *kernel.Error { return nil }

// AllocPageTable delegates to AllocPage: every frame the boot allocator
// hands out is 4 KiB.
func (a *BootFrameAllocator) AllocPageTable() (Frame[Size4KiB], *kernel.Error) {
	return a.AllocPage()
}

// FreePageTable is a no-op, matching FreePage.
func (a *BootFrameAllocator) FreePageTable(Frame[Size4KiB]) *kernel.Error { return nil }

// Replay resets the allocation cursor to the start and re-runs exactly
// allocCount AllocPage calls, invoking mark for each returned frame. This
// lets a higher-level allocator (FrameBitmap, via Init) recover the set of
// frames the boot allocator handed out so it can flag them reserved, since
// BootFrameAllocator itself only tracks a counter, not individual frames.
func (a *BootFrameAllocator) Replay(mark func(Frame[Size4KiB])) {
	count := a.allocCount
	a.nextRegion = 0
	a.allocCount = 0
	if len(a.regions) > 0 {
		a.nextFrame = a.regions[0].Start
	}

	for i := uint64(0); i < count; i++ {
		frame, err := a.AllocPage()
		if err != nil {
			return
		}
		mark(frame)
	}
}

var _ FrameAllocator[Size4KiB] = (*BootFrameAllocator)(nil)
