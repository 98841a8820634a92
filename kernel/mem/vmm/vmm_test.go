package vmm

import (
	"testing"

	"github.com/Mek101/meetixos-sub000/kernel"
	"github.com/Mek101/meetixos-sub000/kernel/mem"
	"github.com/Mek101/meetixos-sub000/kernel/mem/pmm"
)

// fakeAllocator hands out sequential 4 KiB frames backed by in-memory
// PageTable values, so the walker can be exercised without real physical
// memory or a linear phys_offset mapping.
type fakeAllocator struct {
	t      *testing.T
	next   uint64
	tables map[uint64]*PageTable
}

func newFakeAllocator(t *testing.T) *fakeAllocator {
	return &fakeAllocator{t: t, tables: make(map[uint64]*PageTable)}
}

func (a *fakeAllocator) AllocPage() (pmm.Frame[pmm.Size4KiB], *kernel.Error) {
	return a.AllocPageTable()
}

func (a *fakeAllocator) FreePage(f pmm.Frame[pmm.Size4KiB]) *kernel.Error {
	return a.FreePageTable(f)
}

func (a *fakeAllocator) AllocPageTable() (pmm.Frame[pmm.Size4KiB], *kernel.Error) {
	idx := a.next
	a.next++
	addr := mem.PhysAddr(idx * uint64(mem.PageSize))
	f, ok := pmm.NewFrame[pmm.Size4KiB](addr)
	if !ok {
		a.t.Fatalf("fakeAllocator: generated unaligned address")
	}
	a.tables[idx] = &PageTable{}
	return f, nil
}

func (a *fakeAllocator) FreePageTable(f pmm.Frame[pmm.Size4KiB]) *kernel.Error {
	delete(a.tables, f.Index4KiB())
	return nil
}

var _ pmm.FrameAllocator[pmm.Size4KiB] = (*fakeAllocator)(nil)

// installFakeTables replaces tableAtFn for the duration of the test with a
// lookup into alloc's in-memory registry, ignoring phys_offset entirely.
func installFakeTables(t *testing.T, alloc *fakeAllocator) {
	t.Helper()
	orig := tableAtFn
	tableAtFn = func(frame pmm.Frame[pmm.Size4KiB], _ mem.VirtAddr) *PageTable {
		pt, ok := alloc.tables[frame.Index4KiB()]
		if !ok {
			t.Fatalf("tableAt: frame %d not registered", frame.Index4KiB())
		}
		return pt
	}
	t.Cleanup(func() { tableAtFn = orig })
}

// newTestPageDir builds a PageDir with a freshly allocated, empty root
// table, wired to alloc's fake table registry.
func newTestPageDir(t *testing.T, alloc *fakeAllocator) *PageDir {
	t.Helper()
	installFakeTables(t, alloc)
	root, err := alloc.AllocPageTable()
	if err != nil {
		t.Fatalf("AllocPageTable() error = %v", err)
	}
	return NewPageDir(root, mem.VirtAddr(0))
}

func testVirt(a, b, c, d uint16) mem.VirtAddr {
	var v uint64
	v |= uint64(a) << 39
	v |= uint64(b) << 30
	v |= uint64(c) << 21
	v |= uint64(d) << 12
	return mem.VirtAddr(v).Canonicalize()
}
