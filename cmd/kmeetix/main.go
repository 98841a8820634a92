// Command kmeetix is the freestanding kernel entry point. It is not built
// as a regular Go binary: the rt0 assembly trampoline sets up a GDT and a
// minimal g0 stack before jumping here, the same bootstrap boot.go and
// kernel/kmain/kmain.go perform for the teacher's own entrypoint.
package main

import (
	"unsafe"

	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/hal"
	"github.com/Mek101/meetixos-sub000/kernel/hal/multiboot"
	"github.com/Mek101/meetixos-sub000/kernel/heap"
	kfmt "github.com/Mek101/meetixos-sub000/kernel/kfmt/early"
	nyan "github.com/Mek101/meetixos-sub000/kernel/kmain"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	"github.com/Mek101/meetixos-sub000/kernel/mem/pmm"
	"github.com/Mek101/meetixos-sub000/kernel/mem/vmm"
	"github.com/Mek101/meetixos-sub000/kernel/obj"
	"github.com/Mek101/meetixos-sub000/kernel/syscall"
	"github.com/Mek101/meetixos-sub000/kernel/vfs"
)

var errKmainReturned = &kernel.Error{Module: "kmeetix", Message: "kmain returned"}

// debugNyan switches the whole boot sequence for the nyancat screensaver,
// useful for exercising the terminal driver on real hardware without any
// of the memory/object plumbing in the way. Flip and rebuild to use it.
const debugNyan = false

// multibootInfoPtr is a package-level global so the compiler cannot inline
// away the call from main and strip the real entrypoint from the
// generated object file; stub.go relies on the same trick.
var multibootInfoPtr uintptr

func main() {
	kmain(multibootInfoPtr, 0, 0)
}

// kmain brings up, in order: the early console, the boot-time physical
// frame allocator, the virtual memory layout and kernel heap, and the
// registries (obj, vfs, syscall) every later subsystem is built on.
// It never returns; if it does, the rt0 code halts the CPU.
//
//go:noinline
func kmain(multibootInfoPtr, kernelStart, kernelEnd uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr)

	hal.InitTerminal()
	hal.ActiveTerminal.Clear()
	kfmt.Printf("Starting meetix kernel\n")

	if debugNyan {
		nyan.Nyan()
	}

	bootAlloc, regions := newBootAllocator(kernelStart, kernelEnd)

	pageDir, err := bringUpVirtualMemory(bootAlloc)
	if err != nil {
		kernel.Panic(err)
	}
	vmm.SetActivePageDir(pageDir)
	vmm.SetActiveFrameAllocator(bootAlloc)

	frameAlloc, err := bringUpFrameBitmap(pageDir, bootAlloc, regions, kernelStart, kernelEnd)
	if err != nil {
		kernel.Panic(err)
	}
	vmm.SetActiveFrameAllocator(frameAlloc)

	kernelHeap, err := bringUpHeap(pageDir, frameAlloc)
	if err != nil {
		kernel.Panic(err)
	}
	_ = kernelHeap

	resolver := vfs.NewVfsResolver()
	registry := obj.DefaultRegistry()
	gate := syscall.NewGate()
	registerSyscalls(gate, resolver, registry)

	kfmt.Printf("meetix kernel initialized\n")

	kernel.Panic(errKmainReturned)
}

// newBootAllocator flattens the bootloader-reported available memory
// regions into the cursor-based allocator used before FrameBitmap exists.
// The same flattened regions are reused by bringUpFrameBitmap to seed the
// steady-state allocator once it takes over.
func newBootAllocator(kernelStart, kernelEnd uintptr) (*pmm.BootFrameAllocator, []pmm.MemoryRegion) {
	var regions []pmm.MemoryRegion
	multiboot.VisitMemRegions(func(entry *multiboot.MemoryMapEntry) bool {
		if entry.Type != multiboot.MemAvailable {
			return true
		}

		start := pmm.NewFrameRoundDown[pmm.Size4KiB](mem.PhysAddr(entry.PhysAddress))
		end := pmm.NewFrameRoundDown[pmm.Size4KiB](mem.PhysAddr(entry.PhysAddress + entry.Length))
		if uint64(start.Address()) < uint64(kernelEnd) && uint64(end.Address()) > uint64(kernelStart) {
			// Exclude the range occupied by the kernel image so the boot
			// allocator can never hand one of its frames out; bringUpFrameBitmap
			// reuses this same filtered list, so the bitmap never needs to
			// carve the kernel range out a second time either.
			return true
		}

		regions = append(regions, pmm.MemoryRegion{Start: start, End: end})
		return true
	})
	return pmm.NewBootFrameAllocator(regions), regions
}

// bringUpVirtualMemory allocates a fresh top-level page table from the
// boot allocator and partitions the kernel's virtual address space.
func bringUpVirtualMemory(bootAlloc *pmm.BootFrameAllocator) (*vmm.PageDir, *kernel.Error) {
	rootFrame, err := bootAlloc.AllocPage()
	if err != nil {
		return nil, err
	}

	physOffset := mem.VirtAddr(0xffff_8000_0000_0000)
	pageDir := vmm.NewPageDir(rootFrame, physOffset)

	vmm.InitLayout(vmm.LayoutParams{
		Base:            physOffset,
		PhysMemSize:     512 * mem.Gb,
		TmpMappingSize:  64 * mem.Mb,
		KernRegionsSize: 1 * mem.Gb,
		FsPageCacheSize: 256 * mem.Mb,
	})

	return pageDir, nil
}

// bringUpFrameBitmap reserves and maps backing storage for a FrameBitmap,
// seeds it from the same regions the boot allocator was built from, and
// replays every frame the boot allocator has handed out so far as
// reserved. From this point on the bitmap, not the boot allocator, is the
// allocator of record for the rest of boot and steady-state operation.
//
// Mirrors the teacher's own two-pass setupPoolBitmaps: reserve address
// space, map it page by page with frames from the allocator being
// replaced, zero it, then overlay the real structure on top.
func bringUpFrameBitmap(pageDir *vmm.PageDir, bootAlloc *pmm.BootFrameAllocator, regions []pmm.MemoryRegion, kernelStart, kernelEnd uintptr) (*pmm.BitmapFrameAllocator[pmm.Size4KiB], *kernel.Error) {
	var highestFrame uint64
	for _, r := range regions {
		if idx := r.End.Index4KiB(); idx > highestFrame {
			highestFrame = idx
		}
	}
	backingSize := mem.Size((highestFrame+7)/8).RoundUp(mem.PageSize)

	backingBase, err := vmm.EarlyReserveRegion(backingSize)
	if err != nil {
		return nil, err
	}

	pages := uint64(backingSize / mem.PageSize)
	for i := uint64(0); i < pages; i++ {
		frame, ferr := bootAlloc.AllocPage()
		if ferr != nil {
			return nil, ferr
		}
		page := backingBase.Add(i * uint64(mem.PageSize))
		flush, merr := vmm.MapSingle(pageDir, bootAlloc, page, frame, vmm.FlagPresent|vmm.FlagWriteable|vmm.FlagNoExecute)
		if merr != nil {
			return nil, &kernel.Error{Module: "kmeetix", Message: merr.Error()}
		}
		flush.Flush()
	}
	mem.Memset(uintptr(backingBase), 0, backingSize)

	backing := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(backingBase))), int(backingSize))

	kernelStartFrame := pmm.NewFrameRoundDown[pmm.Size4KiB](mem.PhysAddr(kernelStart))
	kernelEndFrame := pmm.NewFrameRoundDown[pmm.Size4KiB](mem.PhysAddr(kernelEnd))
	bitmap := pmm.Init(regions, backing, bootAlloc, kernelStartFrame, kernelEndFrame)

	return pmm.NewBitmapFrameAllocator[pmm.Size4KiB](bitmap), nil
}

// bringUpHeap wires the kernel heap's page supplier to the virtual memory
// subsystem: each refill request maps fresh 4 KiB pages out of the
// KernRegions slice of the address space.
func bringUpHeap(pageDir *vmm.PageDir, frameAlloc pmm.FrameAllocator[pmm.Size4KiB]) (*heap.Heap, *kernel.Error) {
	region := vmm.Layout().KernRegions
	cursor := region.Base

	supplier := func(requested mem.Size) (mem.VirtAddr, mem.Size, bool) {
		actual := requested.RoundUp(mem.PageSize)
		if cursor.Add(uint64(actual)) > region.End() {
			return 0, 0, false
		}

		pages := uint64(actual / mem.PageSize)
		for i := uint64(0); i < pages; i++ {
			frame, ferr := frameAlloc.AllocPage()
			if ferr != nil {
				return 0, 0, false
			}
			virt := cursor.Add(i * uint64(mem.PageSize))
			flush, merr := vmm.MapSingle(pageDir, frameAlloc, virt, frame, vmm.FlagPresent|vmm.FlagWriteable)
			if merr != nil {
				return 0, 0, false
			}
			flush.Flush()
		}

		base := cursor
		cursor = cursor.Add(uint64(actual))
		return base, actual, true
	}

	return heap.NewHeap(supplier)
}

// registerSyscalls installs the routine table entries backed by the
// resolver and registry brought up during boot. Individual Dir/File/...
// routines are added incrementally as each object kind gains kernel-side
// support; an unregistered class/fn pair simply reports ErrUnknownFn.
func registerSyscalls(gate *syscall.Gate, resolver *vfs.VfsResolver, registry *obj.Registry) {
	gate.Register(syscall.ClassObject, 0, func(p *syscall.Payload) *kernel.Error {
		_, ok := registry.Lookup(p.Handle)
		if !ok {
			p.Result = 0
			return obj.ErrInvalidHandle
		}
		p.Result = 1
		return nil
	})
}
