// Package pmm manages physical memory frame allocation: a bootstrap
// allocator used before the bitmap is mapped, and a bitmap-backed allocator
// for steady-state use.
package pmm

import "github.com/Mek101/meetixos-sub000/kernel/mem"

// SizeClass is implemented by the marker types Size4KiB, Size2MiB and
// Size1GiB, used to parameterize Frame so that the compiler distinguishes
// frames of different granularities.
type SizeClass interface {
	// Bytes returns the size in bytes of one frame of this class.
	Bytes() mem.Size
}

// Size4KiB marks a Frame as using the base 4 KiB page-table leaf size.
type Size4KiB struct{}

// Bytes implements SizeClass.
func (Size4KiB) Bytes() mem.Size { return mem.PageSize }

// Size2MiB marks a Frame as a huge page terminating the walk at level 2.
type Size2MiB struct{}

// Bytes implements SizeClass.
func (Size2MiB) Bytes() mem.Size { return 2 * mem.Mb }

// Size1GiB marks a Frame as a huge page terminating the walk at level 3.
type Size1GiB struct{}

// Bytes implements SizeClass.
func (Size1GiB) Bytes() mem.Size { return 1 * mem.Gb }

// sizeOf returns the byte size associated with the type parameter S without
// requiring a value of S from the caller.
func sizeOf[S SizeClass]() mem.Size {
	var s S
	return s.Bytes()
}

// Frame describes a physical memory address aligned to one of {4 KiB, 2 MiB,
// 1 GiB}, tagged at the type level by S so that frames of different sizes
// cannot be mixed up by the compiler.
type Frame[S SizeClass] mem.PhysAddr

// InvalidFrame is returned by allocators when they fail to reserve a frame.
func InvalidFrame[S SizeClass]() Frame[S] { return Frame[S](^mem.PhysAddr(0)) }

// IsValid reports whether f is not the InvalidFrame sentinel.
func (f Frame[S]) IsValid() bool { return f != InvalidFrame[S]() }

// Address returns the physical address of this frame.
func (f Frame[S]) Address() mem.PhysAddr { return mem.PhysAddr(f) }

// Size returns the byte size of this frame.
func (f Frame[S]) Size() mem.Size { return sizeOf[S]() }

// Index4KiB returns the 4 KiB frame number at which this frame starts. Used
// to translate any frame size into the granularity FrameBitmap tracks.
func (f Frame[S]) Index4KiB() uint64 {
	return uint64(f) >> mem.PageShift
}

// Add returns the frame n positions ahead of f, where one position is the
// size of S. Frame ranges are steppable in both directions via Add with a
// negative (as uint64 underflow is intentional two's-complement) delta.
func (f Frame[S]) Add(n int64) Frame[S] {
	return Frame[S](int64(f) + n*int64(sizeOf[S]()))
}

// frameRaw constructs a Frame from an already-aligned address without
// re-checking alignment. It is the internal, non-enforcing constructor
// referenced by spec: callers within this package use it once alignment has
// already been established (e.g. by a bitmap scan or a prior NewFrame call).
func frameRaw[S SizeClass](addr mem.PhysAddr) Frame[S] {
	return Frame[S](addr)
}

// NewFrame constructs a Frame from addr, failing if addr is not aligned to
// the size of S. This is the strict public constructor.
func NewFrame[S SizeClass](addr mem.PhysAddr) (Frame[S], bool) {
	if !addr.IsAligned(sizeOf[S]()) {
		return Frame[S](0), false
	}
	return frameRaw[S](addr), true
}

// NewFrameRoundDown constructs a Frame from addr, rounding down to the
// nearest multiple of the size of S. This is the lenient public constructor.
func NewFrameRoundDown[S SizeClass](addr mem.PhysAddr) Frame[S] {
	return frameRaw[S](addr.AlignedDown(sizeOf[S]()))
}

// FrameRange describes a half-open [Start, End) range of same-sized frames.
type FrameRange[S SizeClass] struct {
	Start Frame[S]
	End   Frame[S]
}

// Len returns the number of frames covered by the range.
func (r FrameRange[S]) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return (uint64(r.End) - uint64(r.Start)) / uint64(sizeOf[S]())
}

// Contains reports whether f lies within the half-open range.
func (r FrameRange[S]) Contains(f Frame[S]) bool {
	return f >= r.Start && f < r.End
}
