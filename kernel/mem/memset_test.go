package mem

import (
	"testing"
	"unsafe"
)

func TestMemset(t *testing.T) {
	data := make([]byte, 64)
	Memset(uintptr(unsafe.Pointer(&data[0])), 0xAB, Size(len(data)))
	for i, b := range data {
		if b != 0xAB {
			t.Fatalf("byte %d = %#x, want 0xab", i, b)
		}
	}
}

func TestMemsetZeroSizeIsNoop(t *testing.T) {
	data := []byte{1, 2, 3}
	Memset(uintptr(unsafe.Pointer(&data[0])), 0, 0)
	if data[0] != 1 {
		t.Fatal("Memset with size 0 must not touch memory")
	}
}

func TestMemcopy(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, len(src))
	Memcopy(uintptr(unsafe.Pointer(&src[0])), uintptr(unsafe.Pointer(&dst[0])), Size(len(src)))
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("byte %d = %d, want %d", i, dst[i], src[i])
		}
	}
}
