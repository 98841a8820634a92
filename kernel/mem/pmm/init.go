package pmm

// Init seeds a fresh FrameBitmap from the given available memory regions
// and then decommissions boot by replaying every frame boot handed out as
// reserved, plus the frames occupied by the kernel image itself.
//
// backing must be large enough to hold one bit per 4 KiB frame up to the
// highest frame reported by regions; the caller (the kernel's boot wiring)
// is responsible for obtaining and mapping that backing storage via boot,
// mirroring the teacher's two-pass setupPoolBitmaps.
func Init(regions []MemoryRegion, backing []byte, boot *BootFrameAllocator, kernelStart, kernelEnd Frame[Size4KiB]) *FrameBitmap {
	var highest uint64
	for _, r := range regions {
		if idx := r.End.Index4KiB(); idx > highest {
			highest = idx
		}
	}

	bitmap := NewFrameBitmap(highest, backing)
	for _, r := range regions {
		for f := r.Start; f.Address() < r.End.Address(); f = f.Add(1) {
			bitmap.Seed(f)
		}
	}

	for f := kernelStart; f.Address() < kernelEnd.Address(); f = f.Add(1) {
		if bitmap.isFree(f.Index4KiB()) {
			bitmap.setBit(f.Index4KiB(), false)
			bitmap.allocatedBits++
		}
	}

	if boot != nil {
		boot.Replay(func(f Frame[Size4KiB]) {
			if f.Index4KiB() < bitmap.totalFrames && bitmap.isFree(f.Index4KiB()) {
				bitmap.setBit(f.Index4KiB(), false)
				bitmap.allocatedBits++
			}
		})
	}

	return bitmap
}
