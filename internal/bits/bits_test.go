package bits

import "testing"

func TestSetClearGet(t *testing.T) {
	var w uint32

	Set(&w, 3)
	if Get(&w, 3, 1) != 1 {
		t.Fatalf("Set(3) did not set bit 3: %#x", w)
	}

	Clear(&w, 3)
	if Get(&w, 3, 1) != 0 {
		t.Fatalf("Clear(3) did not clear bit 3: %#x", w)
	}
}

func TestSetTo(t *testing.T) {
	var w uint32

	SetTo(&w, 5, true)
	if Get(&w, 5, 1) != 1 {
		t.Fatalf("SetTo(true) did not set bit: %#x", w)
	}

	SetTo(&w, 5, false)
	if Get(&w, 5, 1) != 0 {
		t.Fatalf("SetTo(false) did not clear bit: %#x", w)
	}
}

func TestSetN(t *testing.T) {
	var w uint32 = 0xffffffff

	SetN(&w, 8, 0xff, 0x3c)
	if got := Get(&w, 8, 0xff); got != 0x3c {
		t.Fatalf("SetN field = %#x, want 0x3c", got)
	}

	// bits outside the field must survive untouched
	if Get(&w, 0, 0xff) != 0xff {
		t.Fatalf("SetN disturbed bits outside its field: %#x", w)
	}
	if Get(&w, 16, 0xffff) != 0xffff {
		t.Fatalf("SetN disturbed bits outside its field: %#x", w)
	}
}

func TestSetNMasksValue(t *testing.T) {
	var w uint32

	SetN(&w, 0, 0b11, 0xff)
	if got := Get(&w, 0, 0b11); got != 0b11 {
		t.Fatalf("SetN did not mask val to field width: %#x", got)
	}
}
