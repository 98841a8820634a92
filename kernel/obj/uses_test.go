package obj

import "testing"

func TestUseHas(t *testing.T) {
	mask := UseOpening.With(UseReadingData)

	if !mask.Has(UseOpening) || !mask.Has(UseReadingData) {
		t.Fatal("expected mask to report both combined uses")
	}
	if mask.Has(UseWritingData) {
		t.Fatal("expected mask to not report an unrelated use")
	}
}

func TestUseWithout(t *testing.T) {
	mask := UseOpening.With(UseReadingData).With(UseWatching)
	mask = mask.Without(UseReadingData)

	if mask.Has(UseReadingData) {
		t.Fatal("expected Without to clear the bit")
	}
	if !mask.Has(UseOpening) || !mask.Has(UseWatching) {
		t.Fatal("expected Without to leave the other bits untouched")
	}
}

func TestUseBitValues(t *testing.T) {
	// The numeric values are part of the wire ABI shared with userland;
	// pin them so a refactor cannot silently renumber them.
	cases := map[Use]Use{
		UseOpening:     1,
		UseReadingData: 2,
		UseWritingData: 4,
		UseReadingInfo: 8,
		UseWritingInfo: 16,
		UseSending:     32,
		UseReceiving:   64,
		UseWatching:    128,
		UseDropping:    256,
		UseDeleting:    512,
	}
	for use, want := range cases {
		if use != want {
			t.Fatalf("use = %d, want %d", use, want)
		}
	}
}

func TestUseUnknownIsZero(t *testing.T) {
	if UseUnknown != 0 {
		t.Fatalf("UseUnknown = %d, want 0", UseUnknown)
	}
}
