package vmm

import (
	"testing"

	"github.com/Mek101/meetixos-sub000/kernel/mem"
)

func TestInitLayoutPacksRegionsContiguously(t *testing.T) {
	l := InitLayout(LayoutParams{
		Base:            mem.VirtAddr(0xffff800000000000),
		PhysMemSize:     512 * mem.Mb,
		TmpMappingSize:  16 * mem.Kb,
		KernRegionsSize: 64 * mem.Mb,
		FsPageCacheSize: 128 * mem.Mb,
	})

	if l.PhysMemMapping.Base != mem.VirtAddr(0xffff800000000000) {
		t.Fatalf("PhysMemMapping.Base = %#x, want base", l.PhysMemMapping.Base)
	}
	if l.TmpMapping.Base != l.PhysMemMapping.End() {
		t.Fatal("TmpMapping must immediately follow PhysMemMapping")
	}
	if l.KernRegions.Base != l.TmpMapping.End() {
		t.Fatal("KernRegions must immediately follow TmpMapping")
	}
	if l.FsPageCache.Base != l.KernRegions.End() {
		t.Fatal("FsPageCache must immediately follow KernRegions")
	}

	if l.TmpMapping.Size < 16*mem.Kb {
		t.Fatal("TmpMapping shrunk below its requested size")
	}
	if l.KernRegions.Size < 64*mem.Mb {
		t.Fatal("KernRegions shrunk below its requested size")
	}
}

func TestRegionContains(t *testing.T) {
	r := Region{Base: mem.VirtAddr(0x1000), Size: 2 * mem.PageSize}
	if !r.Contains(mem.VirtAddr(0x1000)) {
		t.Fatal("expected region to contain its base")
	}
	if !r.Contains(mem.VirtAddr(0x2fff)) {
		t.Fatal("expected region to contain its last byte")
	}
	if r.Contains(r.End()) {
		t.Fatal("expected region to exclude its End address")
	}
}
