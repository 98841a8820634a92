package pmm

import (
	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	ksync "github.com/Mek101/meetixos-sub000/kernel/sync"
)

var (
	// ErrOutOfMemory is returned when no free frame satisfies a request.
	ErrOutOfMemory = &kernel.Error{Module: "pmm_bitmap", Message: "out of memory"}

	// ErrBadContiguousCount is returned by AllocContiguous when the
	// requested count is not a multiple of 8.
	ErrBadContiguousCount = &kernel.Error{Module: "pmm_bitmap", Message: "contiguous allocation count must be a multiple of 8"}
)

// bitsPerByte documents the scan stride used by FrameBitmap.
const bitsPerByte = 8

// FrameBitmap tracks free/allocated 4 KiB physical frames using one bit per
// frame: bit i is set iff frame i is free. Allocation is 4 KiB granular;
// larger requests are served as runs of contiguous, byte-aligned bits by
// BitmapFrameAllocator.
//
// Allocation inside a trap handler is forbidden: the spin mutex guarding
// this structure never blocks on I/O but must not be acquired recursively.
type FrameBitmap struct {
	mu ksync.Spinlock

	bits []byte

	totalFrames   uint64
	allocatedBits uint64
}

// NewFrameBitmap creates a bitmap tracking totalFrames frames, all initially
// marked allocated. Callers populate it by calling Seed for every frame that
// the boot memory map reports as available.
func NewFrameBitmap(totalFrames uint64, backing []byte) *FrameBitmap {
	required := (totalFrames + bitsPerByte - 1) / bitsPerByte
	if uint64(len(backing)) < required {
		panic("pmm: backing array too small for requested frame count")
	}

	for i := range backing {
		backing[i] = 0
	}

	return &FrameBitmap{
		bits:          backing[:required],
		totalFrames:   totalFrames,
		allocatedBits: totalFrames,
	}
}

// FreeCount returns the number of currently free frames.
func (b *FrameBitmap) FreeCount() uint64 {
	b.mu.Acquire()
	defer b.mu.Release()
	return b.totalFrames - b.allocatedBits
}

// TotalFrames returns the total number of 4 KiB frames tracked.
func (b *FrameBitmap) TotalFrames() uint64 { return b.totalFrames }

func (b *FrameBitmap) setBit(bit uint64, free bool) {
	byteIdx, mask := bit/bitsPerByte, byte(1<<(bit%bitsPerByte))
	if free {
		b.bits[byteIdx] |= mask
	} else {
		b.bits[byteIdx] &^= mask
	}
}

func (b *FrameBitmap) isFree(bit uint64) bool {
	byteIdx, mask := bit/bitsPerByte, byte(1<<(bit%bitsPerByte))
	return b.bits[byteIdx]&mask != 0
}

// Seed marks bit as free during initialization, before any allocation has
// taken place.
func (b *FrameBitmap) Seed(frame Frame[Size4KiB]) {
	b.mu.Acquire()
	defer b.mu.Release()

	bit := frame.Index4KiB()
	if bit >= b.totalFrames {
		return
	}
	if !b.isFree(bit) {
		b.setBit(bit, true)
		b.allocatedBits--
	}
}

// AllocSingle scans for the first free frame, marks it allocated and
// returns it. Runs in O(N/8) worst case over the bitmap bytes.
func (b *FrameBitmap) AllocSingle() (Frame[Size4KiB], bool) {
	b.mu.Acquire()
	defer b.mu.Release()

	for byteIdx, byteVal := range b.bits {
		if byteVal == 0 {
			continue
		}
		for bitInByte := 0; bitInByte < bitsPerByte; bitInByte++ {
			mask := byte(1 << bitInByte)
			if byteVal&mask == 0 {
				continue
			}
			bit := uint64(byteIdx)*bitsPerByte + uint64(bitInByte)
			if bit >= b.totalFrames {
				return InvalidFrame[Size4KiB](), false
			}
			b.bits[byteIdx] &^= mask
			b.allocatedBits++
			return frameRaw[Size4KiB](frameAddrFromIndex(bit)), true
		}
	}
	return InvalidFrame[Size4KiB](), false
}

// FreeSingle marks frame as free again. Freeing an already-free frame is a
// double-free bug and panics, matching the kernel's invariant-violation
// policy (spec error handling design: panics are reserved for invariant
// violations such as double-free).
func (b *FrameBitmap) FreeSingle(frame Frame[Size4KiB]) {
	b.mu.Acquire()
	defer b.mu.Release()
	b.freeSingleLocked(frame)
}

func (b *FrameBitmap) freeSingleLocked(frame Frame[Size4KiB]) {
	bit := frame.Index4KiB()
	if bit >= b.totalFrames {
		panic("pmm: free of frame outside managed range")
	}
	if b.isFree(bit) {
		panic("pmm: double free of physical frame")
	}
	b.setBit(bit, true)
	b.allocatedBits--
}

// AllocContiguous reserves n contiguous, previously-free frames, where n
// must be a multiple of 8 (the bitmap scans in byte-aligned steps). It
// returns the allocated half-open range, or false if no such run exists.
func (b *FrameBitmap) AllocContiguous(n uint64) (FrameRange[Size4KiB], bool) {
	if n == 0 || n%bitsPerByte != 0 {
		return FrameRange[Size4KiB]{}, false
	}

	b.mu.Acquire()
	defer b.mu.Release()

	runBytes := n / bitsPerByte
	totalBytes := uint64(len(b.bits))

	for start := uint64(0); start+runBytes <= totalBytes; start += runBytes {
		allFree := true
		for i := uint64(0); i < runBytes; i++ {
			if b.bits[start+i] != 0xFF {
				allFree = false
				break
			}
		}
		if !allFree {
			continue
		}

		startBit := start * bitsPerByte
		if startBit+n > b.totalFrames {
			continue
		}

		for i := uint64(0); i < runBytes; i++ {
			b.bits[start+i] = 0
		}
		b.allocatedBits += n

		startFrame := frameRaw[Size4KiB](frameAddrFromIndex(startBit))
		return FrameRange[Size4KiB]{Start: startFrame, End: startFrame.Add(int64(n))}, true
	}

	return FrameRange[Size4KiB]{}, false
}

// FreeContiguous marks every frame in the half-open range as free. It is not
// idempotent: freeing a range that overlaps any already-free frame panics,
// so a range allocated by AllocContiguous can be freed exactly once.
func (b *FrameBitmap) FreeContiguous(r FrameRange[Size4KiB]) {
	b.mu.Acquire()
	defer b.mu.Release()

	n := r.Len()
	for i := uint64(0); i < n; i++ {
		b.freeSingleLocked(r.Start.Add(int64(i)))
	}
}

func frameAddrFromIndex(bit uint64) mem.PhysAddr {
	return mem.PhysAddr(bit << mem.PageShift)
}
