package vfs

import "testing"

func TestPathCacheSetGetExact(t *testing.T) {
	c := NewPathCache[int](4)
	c.Set([]string{"a"}, 1)

	if v, ok := c.GetExact([]string{"a"}); !ok || v != 1 {
		t.Fatalf("GetExact = %d, %v, want 1, true", v, ok)
	}
	if _, ok := c.GetExact([]string{"b"}); ok {
		t.Fatal("expected no entry for /b")
	}
}

func TestPathCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewPathCache[int](2)
	c.Set([]string{"a"}, 1)
	c.Set([]string{"b"}, 2)

	// Touch /a so it becomes most-recently-used, leaving /b as the victim.
	c.GetExact([]string{"a"})
	c.Set([]string{"c"}, 3)

	if _, ok := c.GetExact([]string{"b"}); ok {
		t.Fatal("expected /b to have been evicted")
	}
	if _, ok := c.GetExact([]string{"a"}); !ok {
		t.Fatal("expected /a to survive eviction")
	}
	if _, ok := c.GetExact([]string{"c"}); !ok {
		t.Fatal("expected /c to be present")
	}
	if c.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", c.Count())
	}
}

func TestPathCacheGetBestMatchAncestor(t *testing.T) {
	c := NewPathCache[string](8)
	c.Set([]string{"mnt", "data"}, "data-node")

	m := c.GetBestMatch([]string{"mnt", "data", "sub", "file"}, 10)
	if m.Kind != AncestorMatch || m.Value != "data-node" || m.Distance != 2 {
		t.Fatalf("GetBestMatch = %+v, want data-node at distance 2", m)
	}
}

func TestPathCacheRemoveAndFlush(t *testing.T) {
	c := NewPathCache[int](4)
	c.Set([]string{"a"}, 1)
	c.Set([]string{"b"}, 2)

	if !c.Remove([]string{"a"}) {
		t.Fatal("expected Remove to report success")
	}
	if _, ok := c.GetExact([]string{"a"}); ok {
		t.Fatal("expected /a to be gone")
	}

	c.Flush()
	if c.Count() != 0 {
		t.Fatalf("Count() after Flush() = %d, want 0", c.Count())
	}
}

func TestPathCacheZeroCapacityNeverStores(t *testing.T) {
	c := NewPathCache[int](0)
	c.Set([]string{"a"}, 1)
	if _, ok := c.GetExact([]string{"a"}); ok {
		t.Fatal("expected a zero-capacity cache to never store anything")
	}
}
