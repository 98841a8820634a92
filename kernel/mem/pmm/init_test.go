package pmm

import "testing"

func frameAtIndex(n uint64) Frame[Size4KiB] {
	f, _ := NewFrame[Size4KiB](frameAddrFromIndex(n))
	return f
}

func TestInitSeedsRegionsAndExcludesKernelImage(t *testing.T) {
	regions := []MemoryRegion{
		{Start: frameAtIndex(0), End: frameAtIndex(16)},
	}
	backing := make([]byte, 16/8)

	bitmap := Init(regions, backing, nil, frameAtIndex(4), frameAtIndex(8))

	for n := uint64(0); n < 16; n++ {
		want := n < 4 || n >= 8
		if got := bitmap.isFree(n); got != want {
			t.Fatalf("frame %d: isFree() = %v, want %v", n, got, want)
		}
	}
}

func TestInitReplaysBootAllocatorAsReserved(t *testing.T) {
	regions := []MemoryRegion{
		{Start: frameAtIndex(0), End: frameAtIndex(8)},
	}
	backing := make([]byte, 8/8)

	boot := NewBootFrameAllocator(regions)
	for i := 0; i < 3; i++ {
		if _, err := boot.AllocPage(); err != nil {
			t.Fatalf("boot.AllocPage() = %v", err)
		}
	}

	bitmap := Init(regions, backing, boot, InvalidFrame[Size4KiB](), InvalidFrame[Size4KiB]())

	for n := uint64(0); n < 3; n++ {
		if bitmap.isFree(n) {
			t.Fatalf("frame %d: want reserved (handed out by boot allocator), got free", n)
		}
	}
	for n := uint64(3); n < 8; n++ {
		if !bitmap.isFree(n) {
			t.Fatalf("frame %d: want free, got reserved", n)
		}
	}

	if got, want := bitmap.allocatedBits, uint64(3); got != want {
		t.Fatalf("allocatedBits = %d, want %d", got, want)
	}
}

func TestInitWithInvalidKernelRangeExcludesNothing(t *testing.T) {
	regions := []MemoryRegion{
		{Start: frameAtIndex(0), End: frameAtIndex(8)},
	}
	backing := make([]byte, 8/8)

	bitmap := Init(regions, backing, nil, InvalidFrame[Size4KiB](), InvalidFrame[Size4KiB]())

	for n := uint64(0); n < 8; n++ {
		if !bitmap.isFree(n) {
			t.Fatalf("frame %d: want free, got reserved", n)
		}
	}
}
