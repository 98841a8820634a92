package pmm

import "testing"

func regionFrames(startIdx, endIdx uint64) MemoryRegion {
	return MemoryRegion{
		Start: frameRaw[Size4KiB](frameAddrFromIndex(startIdx)),
		End:   frameRaw[Size4KiB](frameAddrFromIndex(endIdx)),
	}
}

func TestBootFrameAllocatorSequential(t *testing.T) {
	boot := NewBootFrameAllocator([]MemoryRegion{regionFrames(5, 8)})

	var got []uint64
	for i := 0; i < 3; i++ {
		f, err := boot.AllocPage()
		if err != nil {
			t.Fatalf("AllocPage() error = %v", err)
		}
		got = append(got, f.Index4KiB())
	}

	want := []uint64{5, 6, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d = %d, want %d", i, got[i], want[i])
		}
	}

	if _, err := boot.AllocPage(); err != ErrBootAllocOutOfMemory {
		t.Fatalf("expected ErrBootAllocOutOfMemory, got %v", err)
	}
}

func TestBootFrameAllocatorAdvancesAcrossRegions(t *testing.T) {
	boot := NewBootFrameAllocator([]MemoryRegion{
		regionFrames(0, 1),
		regionFrames(10, 12),
	})

	f1, _ := boot.AllocPage()
	f2, _ := boot.AllocPage()
	f3, _ := boot.AllocPage()

	if f1.Index4KiB() != 0 || f2.Index4KiB() != 10 || f3.Index4KiB() != 11 {
		t.Fatalf("got frames %d, %d, %d; want 0, 10, 11", f1.Index4KiB(), f2.Index4KiB(), f3.Index4KiB())
	}
}

func TestBootFrameAllocatorFreeIsNoop(t *testing.T) {
	boot := NewBootFrameAllocator([]MemoryRegion{regionFrames(0, 4)})
	f, _ := boot.AllocPage()
	if err := boot.FreePage(f); err != nil {
		t.Fatalf("FreePage() error = %v", err)
	}
	// The allocator must not rewind: the next allocation is the next
	// frame, not the one just "freed".
	next, _ := boot.AllocPage()
	if next.Index4KiB() != f.Index4KiB()+1 {
		t.Fatalf("expected boot allocator not to reuse freed frames")
	}
}

func TestBootFrameAllocatorReplay(t *testing.T) {
	boot := NewBootFrameAllocator([]MemoryRegion{regionFrames(0, 4)})
	boot.AllocPage()
	boot.AllocPage()
	boot.AllocPage()

	var replayed []uint64
	boot.Replay(func(f Frame[Size4KiB]) {
		replayed = append(replayed, f.Index4KiB())
	})

	want := []uint64{0, 1, 2}
	if len(replayed) != len(want) {
		t.Fatalf("replayed %d frames, want %d", len(replayed), len(want))
	}
	for i := range want {
		if replayed[i] != want[i] {
			t.Fatalf("replayed[%d] = %d, want %d", i, replayed[i], want[i])
		}
	}
}
