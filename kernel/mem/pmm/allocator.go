package pmm

import (
	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
)

// FrameAllocator is the interface PageDir (and the heap's memory supplier)
// use to obtain physical frames. alloc_page_table/free_page_table always
// operate on 4 KiB frames regardless of the data-frame size S, since
// intermediate page-table levels are always a single 4 KiB table.
type FrameAllocator[S SizeClass] interface {
	AllocPage() (Frame[S], *kernel.Error)
	FreePage(Frame[S]) *kernel.Error
	AllocPageTable() (Frame[Size4KiB], *kernel.Error)
	FreePageTable(Frame[Size4KiB]) *kernel.Error
}

// BitmapFrameAllocator adapts a FrameBitmap into a FrameAllocator[S] for any
// requested page size: 2 MiB and 1 GiB requests are served as the
// corresponding number of contiguous 4 KiB bits (512 and 262144
// respectively, both multiples of 8).
type BitmapFrameAllocator[S SizeClass] struct {
	Bitmap *FrameBitmap
}

// NewBitmapFrameAllocator wraps bitmap as a FrameAllocator for frames of
// size S.
func NewBitmapFrameAllocator[S SizeClass](bitmap *FrameBitmap) *BitmapFrameAllocator[S] {
	return &BitmapFrameAllocator[S]{Bitmap: bitmap}
}

// AllocPage reserves and returns one frame of size S.
func (a *BitmapFrameAllocator[S]) AllocPage() (Frame[S], *kernel.Error) {
	framesNeeded := uint64(sizeOf[S]() / mem.PageSize)
	if framesNeeded == 1 {
		f, ok := a.Bitmap.AllocSingle()
		if !ok {
			return InvalidFrame[S](), ErrOutOfMemory
		}
		return frameRaw[S](f.Address()), nil
	}

	r, ok := a.Bitmap.AllocContiguous(framesNeeded)
	if !ok {
		return InvalidFrame[S](), ErrOutOfMemory
	}
	return frameRaw[S](r.Start.Address()), nil
}

// FreePage releases a frame of size S previously returned by AllocPage.
func (a *BitmapFrameAllocator[S]) FreePage(f Frame[S]) *kernel.Error {
	framesNeeded := uint64(sizeOf[S]() / mem.PageSize)
	start := frameRaw[Size4KiB](f.Address())
	if framesNeeded == 1 {
		a.Bitmap.FreeSingle(start)
		return nil
	}
	a.Bitmap.FreeContiguous(FrameRange[Size4KiB]{Start: start, End: start.Add(int64(framesNeeded))})
	return nil
}

// AllocPageTable reserves a single 4 KiB frame for an intermediate
// page-table level.
func (a *BitmapFrameAllocator[S]) AllocPageTable() (Frame[Size4KiB], *kernel.Error) {
	f, ok := a.Bitmap.AllocSingle()
	if !ok {
		return InvalidFrame[Size4KiB](), ErrOutOfMemory
	}
	return f, nil
}

// FreePageTable releases a single 4 KiB page-table frame.
func (a *BitmapFrameAllocator[S]) FreePageTable(f Frame[Size4KiB]) *kernel.Error {
	a.Bitmap.FreeSingle(f)
	return nil
}

var _ FrameAllocator[Size4KiB] = (*BitmapFrameAllocator[Size4KiB])(nil)
