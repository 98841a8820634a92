package mem

import "testing"

func TestSizeRoundUpDown(t *testing.T) {
	specs := []struct {
		size, align, up, down Size
	}{
		{0, PageSize, 0, 0},
		{1, PageSize, PageSize, 0},
		{PageSize, PageSize, PageSize, PageSize},
		{PageSize + 1, PageSize, 2 * PageSize, PageSize},
	}

	for _, spec := range specs {
		if got := spec.size.RoundUp(spec.align); got != spec.up {
			t.Errorf("RoundUp(%d, %d) = %d, want %d", spec.size, spec.align, got, spec.up)
		}
		if got := spec.size.RoundDown(spec.align); got != spec.down {
			t.Errorf("RoundDown(%d, %d) = %d, want %d", spec.size, spec.align, got, spec.down)
		}
	}
}

func TestSizePages(t *testing.T) {
	if got := Size(0).Pages(); got != 0 {
		t.Errorf("Pages() = %d, want 0", got)
	}
	if got := (PageSize + 1).Pages(); got != 2 {
		t.Errorf("Pages() = %d, want 2", got)
	}
}

func TestPageSizeClassBytes(t *testing.T) {
	specs := map[PageSizeClass]Size{
		Page4KiB: PageSize,
		Page2MiB: 2 * Mb,
		Page1GiB: 1 * Gb,
	}
	for class, want := range specs {
		if got := class.Bytes(); got != want {
			t.Errorf("%v.Bytes() = %d, want %d", class, got, want)
		}
	}
}
