package reg

import "testing"

func TestBlockReadWrite(t *testing.T) {
	sim := NewSimulator()
	b := NewBlock(0x1000, sim)

	b.Write(0x10, 0xdeadbeef)
	if got := b.Read(0x10); got != 0xdeadbeef {
		t.Fatalf("Read = %#x, want 0xdeadbeef", got)
	}

	if got := sim.Peek(0x1010); got != 0xdeadbeef {
		t.Fatalf("Block did not add Base to offset: Peek(0x1010) = %#x", got)
	}
}

func TestBlockSetClearGet(t *testing.T) {
	sim := NewSimulator()
	b := NewBlock(0, sim)

	b.Set(0x4, 7)
	if b.Get(0x4, 7, 1) != 1 {
		t.Fatal("Set did not set bit 7")
	}

	b.Clear(0x4, 7)
	if b.Get(0x4, 7, 1) != 0 {
		t.Fatal("Clear did not clear bit 7")
	}
}

func TestBlockSetNClearN(t *testing.T) {
	sim := NewSimulator()
	b := NewBlock(0, sim)

	b.Write(0x8, 0xffffffff)
	b.SetN(0x8, 16, 0x7ff, 0x123)

	if got := b.Get(0x8, 16, 0x7ff); got != 0x123 {
		t.Fatalf("SetN field = %#x, want 0x123", got)
	}
	if b.Get(0x8, 0, 0xffff) != 0xffff {
		t.Fatal("SetN disturbed bits outside its field")
	}

	b.ClearN(0x8, 16, 0x7ff)
	if b.Get(0x8, 16, 0x7ff) != 0 {
		t.Fatal("ClearN did not clear its field")
	}
}

func TestBlockWriteBack(t *testing.T) {
	sim := NewSimulator()
	b := NewBlock(0, sim)

	b.Write(0xc, 0x55)
	sim.ResetTrace()

	b.WriteBack(0xc)

	if got := sim.Peek(0xc); got != 0x55 {
		t.Fatalf("WriteBack changed the register value: %#x", got)
	}
	if n := sim.WriteCount(0xc); n != 1 {
		t.Fatalf("WriteBack performed %d writes, want 1", n)
	}
}

func TestBlockWaitN(t *testing.T) {
	sim := NewSimulator()
	b := NewBlock(0, sim)

	// Flips the bit on the third read, simulating hardware asserting
	// ENDPTSTAT shortly after ENDPTPRIME is written.
	reads := 0
	sim.OnRead = func(s *Simulator, addr, val uint32) {
		reads++
		if reads == 3 {
			s.Poke(addr, val|1)
		}
	}

	if !b.WaitN(0x10, 0, 1, 1, 10) {
		t.Fatal("WaitN gave up before the bit asserted")
	}
}

func TestBlockWaitNBounded(t *testing.T) {
	sim := NewSimulator()
	b := NewBlock(0, sim)

	if b.WaitN(0x10, 0, 1, 1, 5) {
		t.Fatal("WaitN reported success for a bit that never asserts")
	}
}
