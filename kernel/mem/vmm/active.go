package vmm

import "github.com/Mek101/meetixos-sub000/kernel/mem/pmm"

// activePageDir and activeFrameAlloc let code that runs long after boot
// (the Go runtime's own allocator hooks in kernel/goruntime, in
// particular) reach the page directory and frame allocator cmd/kmeetix
// installed without needing them threaded through every call site.
var (
	activePageDir   *PageDir
	activeFrameAlloc pmm.FrameAllocator[pmm.Size4KiB]
)

// SetActivePageDir installs the page directory later callers reach via
// ActivePageDir. Must be called once, after the directory is built.
func SetActivePageDir(pd *PageDir) { activePageDir = pd }

// ActivePageDir returns the page directory installed by SetActivePageDir,
// or nil if boot has not reached that point yet.
func ActivePageDir() *PageDir { return activePageDir }

// SetActiveFrameAllocator installs the frame allocator later callers reach
// via ActiveFrameAllocator.
func SetActiveFrameAllocator(alloc pmm.FrameAllocator[pmm.Size4KiB]) {
	activeFrameAlloc = alloc
}

// ActiveFrameAllocator returns the frame allocator installed by
// SetActiveFrameAllocator, or nil if boot has not reached that point yet.
func ActiveFrameAllocator() pmm.FrameAllocator[pmm.Size4KiB] { return activeFrameAlloc }
