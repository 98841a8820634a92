// Package goruntime contains code for bootstrapping Go runtime features such
// as the memory allocator.
package goruntime

import (
	"unsafe"

	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	"github.com/Mek101/meetixos-sub000/kernel/mem/pmm"
	"github.com/Mek101/meetixos-sub000/kernel/mem/vmm"
)

// earlyReserveRegion carves size bytes of address space off the tail of
// the kernel region for the Go runtime's exclusive use, via vmm's shared
// bump reservation cursor.
func earlyReserveRegion(size mem.Size) (mem.VirtAddr, *kernel.Error) {
	if size == 0 {
		// The package init() below makes dummy zero-size calls to keep
		// the linkname'd functions from being optimized away before
		// vmm.InitLayout has run; nothing needs to be reserved for them.
		return 0, nil
	}
	return vmm.EarlyReserveRegion(size)
}

// mapPage establishes a single 4 KiB mapping using the page directory and
// frame allocator cmd/kmeetix installed once boot reached vmm.InitLayout.
func mapPage(page mem.VirtAddr, frame pmm.Frame[pmm.Size4KiB], flags vmm.PageTableEntryFlag) *kernel.Error {
	flush, err := vmm.MapSingle(vmm.ActivePageDir(), vmm.ActiveFrameAllocator(), page, frame, flags)
	if err != nil {
		return err
	}
	flush.Flush()
	return nil
}

//go:linkname mSysStatInc runtime.mSysStatInc
func mSysStatInc(*uint64, uintptr)

// sysReserve reserves address space without allocating any memory or
// establishing any page mappings.
//
// This function replaces runtime.sysReserve and is required for initializing
// the Go allocator.
//
//go:redirect-from runtime.sysReserve
//go:nosplit
func sysReserve(_ unsafe.Pointer, size uintptr, reserved *bool) unsafe.Pointer {
	regionStartAddr, err := earlyReserveRegion(mem.Size(size))
	if err != nil {
		panic(err)
	}

	*reserved = true
	return unsafe.Pointer(uintptr(regionStartAddr))
}

// sysMap establishes a mapping for a particular memory region that has been
// reserved previously via a call to sysReserve. The region this kernel's
// vmm package hands out has no shared zero page to map copy-on-write, so
// unlike the hosted runtime's sysMap this eagerly backs every page with a
// freshly allocated frame.
//
// This function replaces runtime.sysMap and is required for initializing
// the Go allocator.
//
//go:redirect-from runtime.sysMap
//go:nosplit
func sysMap(virtAddr unsafe.Pointer, size uintptr, reserved bool, sysStat *uint64) unsafe.Pointer {
	if !reserved {
		panic("sysMap should only be called with reserved=true")
	}

	regionSize := mem.Size(size).RoundUp(mem.PageSize)
	regionStartAddr := mem.VirtAddr(uintptr(virtAddr))
	mapFlags := vmm.FlagPresent | vmm.FlagReadable | vmm.FlagWriteable | vmm.FlagNoExecute
	alloc := vmm.ActiveFrameAllocator()
	for i := uint64(0); i < uint64(regionSize/mem.PageSize); i++ {
		frame, ferr := alloc.AllocPage()
		if ferr != nil {
			return unsafe.Pointer(uintptr(0))
		}
		if err := mapPage(regionStartAddr.Add(i*uint64(mem.PageSize)), frame, mapFlags); err != nil {
			return unsafe.Pointer(uintptr(0))
		}
	}
	mSysStatInc(sysStat, uintptr(regionSize))
	return virtAddr
}

// sysAlloc reserves enough physical frames to satisfy the allocation request
// and establishes a contiguous virtual page mapping for them returning back
// the pointer to the virtual region start.
//
// This function replaces runtime.sysAlloc and is required for initializing the
// Go allocator.
//
//go:redirect-from runtime.sysAlloc
//go:nosplit
func sysAlloc(size uintptr, sysStat *uint64) unsafe.Pointer {
	regionSize := mem.Size(size).RoundUp(mem.PageSize)
	regionStartAddr, err := earlyReserveRegion(regionSize)
	if err != nil {
		return unsafe.Pointer(uintptr(0))
	}

	mapFlags := vmm.FlagPresent | vmm.FlagReadable | vmm.FlagWriteable | vmm.FlagNoExecute
	pageCount := uint64(regionSize / mem.PageSize)
	alloc := vmm.ActiveFrameAllocator()
	for i := uint64(0); i < pageCount; i++ {
		frame, ferr := alloc.AllocPage()
		if ferr != nil {
			return unsafe.Pointer(uintptr(0))
		}

		page := regionStartAddr.Add(i * uint64(mem.PageSize))
		if err := mapPage(page, frame, mapFlags); err != nil {
			return unsafe.Pointer(uintptr(0))
		}
	}

	mSysStatInc(sysStat, uintptr(regionSize))
	return unsafe.Pointer(uintptr(regionStartAddr))
}

func init() {
	// Dummy calls so the compiler does not optimize away the functions in
	// this file.
	var (
		reserved bool
		stat     uint64
		zeroPtr  = unsafe.Pointer(uintptr(0))
	)

	sysReserve(zeroPtr, 0, &reserved)
	sysMap(zeroPtr, 0, reserved, &stat)
	sysAlloc(0, &stat)
}
