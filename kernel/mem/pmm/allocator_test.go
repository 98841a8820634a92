package pmm

import "testing"

func TestBitmapFrameAllocator4KiBOutOfMemory(t *testing.T) {
	b := newTestBitmap(t, 4)
	for n := uint64(0); n < 4; n++ {
		b.Seed(frameRaw[Size4KiB](frameAddrFromIndex(n)))
	}
	alloc := NewBitmapFrameAllocator[Size4KiB](b)

	for i := 0; i < 4; i++ {
		if _, err := alloc.AllocPage(); err != nil {
			t.Fatalf("AllocPage() #%d error = %v", i, err)
		}
	}

	if _, err := alloc.AllocPage(); err != ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}
}

func TestBitmapFrameAllocatorPageTableAlwaysFourKiB(t *testing.T) {
	total := uint64(512 * 2)
	b := newTestBitmap(t, total)
	for n := uint64(0); n < total; n++ {
		b.Seed(frameRaw[Size4KiB](frameAddrFromIndex(n)))
	}

	alloc := NewBitmapFrameAllocator[Size2MiB](b)
	pt, err := alloc.AllocPageTable()
	if err != nil {
		t.Fatalf("AllocPageTable() error = %v", err)
	}
	if pt.Size() != (Size4KiB{}).Bytes() {
		t.Fatalf("AllocPageTable() returned a frame of size %d, want 4KiB", pt.Size())
	}
	if total-b.FreeCount() != 1 {
		t.Fatalf("AllocPageTable() consumed %d frames, want 1", total-b.FreeCount())
	}
}
