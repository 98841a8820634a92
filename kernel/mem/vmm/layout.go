package vmm

import "github.com/Mek101/meetixos-sub000/kernel/mem"

// Region is a reserved slice of the kernel's virtual address space: a base
// address plus the number of bytes set aside for it.
type Region struct {
	Base mem.VirtAddr
	Size mem.Size
}

// End returns the address one past the last byte of the region.
func (r Region) End() mem.VirtAddr { return r.Base.Add(uint64(r.Size)) }

// Contains reports whether addr falls within [Base, End).
func (r Region) Contains(addr mem.VirtAddr) bool {
	return addr >= r.Base && addr < r.End()
}

// LayoutManager partitions the upper half of the kernel's virtual address
// space into four fixed regions, computed once at boot from the amount of
// physical memory discovered by the bootstrap code:
//
//   - PhysMemMapping: the linear phys_offset mapping of all physical RAM.
//   - TmpMapping: a small scratch window for transient single-page
//     mappings (copying between address spaces, zeroing new tables).
//   - KernRegions: the kernel image, stacks and heap.
//   - FsPageCache: address space backing the VFS page cache.
//
// Each is page-aligned and requested sizes are rounded up to whole pages;
// any leftover space from rounding is folded into KernRegions, the region
// most likely to benefit from slack.
type LayoutManager struct {
	PhysMemMapping Region
	TmpMapping     Region
	KernRegions    Region
	FsPageCache    Region
}

var layoutManager *LayoutManager

// LayoutParams are the inputs needed to compute a LayoutManager: how much
// physical memory must be linearly mapped, and how much virtual space the
// remaining three regions should nominally receive.
type LayoutParams struct {
	Base              mem.VirtAddr
	PhysMemSize       mem.Size
	TmpMappingSize    mem.Size
	KernRegionsSize   mem.Size
	FsPageCacheSize   mem.Size
}

// InitLayout computes and installs the singleton LayoutManager from params.
// It must be called exactly once, after the bootstrap code has discovered
// how much physical memory is installed and before any other vmm region
// allocation; a second call panics.
func InitLayout(params LayoutParams) *LayoutManager {
	if layoutManager != nil {
		panic("vmm: InitLayout called more than once")
	}

	base := params.Base

	phys := Region{Base: base, Size: params.PhysMemSize.RoundUp(mem.PageSize)}
	base = phys.End()

	tmp := Region{Base: base, Size: params.TmpMappingSize.RoundUp(mem.PageSize)}
	base = tmp.End()

	requestedKern := params.KernRegionsSize.RoundUp(mem.PageSize)
	fsCache := Region{Size: params.FsPageCacheSize.RoundUp(mem.PageSize)}

	// Rounding up each of the four requested sizes independently can only
	// ever grow the footprint; fold that slack into KernRegions rather
	// than leaving gaps no component owns.
	waste := (phys.Size - params.PhysMemSize) + (tmp.Size - params.TmpMappingSize) +
		(requestedKern - params.KernRegionsSize) + (fsCache.Size - params.FsPageCacheSize)

	kern := Region{Base: base, Size: (requestedKern + waste).RoundUp(mem.PageSize)}
	base = kern.End()

	fsCache.Base = base

	layoutManager = &LayoutManager{
		PhysMemMapping: phys,
		TmpMapping:     tmp,
		KernRegions:    kern,
		FsPageCache:    fsCache,
	}
	return layoutManager
}

// Layout returns the installed singleton LayoutManager, or nil if InitLayout
// has not run yet.
func Layout() *LayoutManager { return layoutManager }
