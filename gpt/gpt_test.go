// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package gpt

import (
	"testing"

	"github.com/nxp-rt/imxrt-usbd/internal/reg"
)

func TestSetLoadLoad(t *testing.T) {
	sim := reg.NewSimulator()
	timer := New(0x1000, sim, Instance0)

	timer.SetLoad(48000)
	if got := timer.Load(); got != 48000 {
		t.Fatalf("Load() = %d, want 48000", got)
	}
}

func TestSetModeMode(t *testing.T) {
	sim := reg.NewSimulator()
	timer := New(0x1000, sim, Instance0)

	timer.SetMode(Repeat)
	if timer.Mode() != Repeat {
		t.Fatal("SetMode(Repeat) did not stick")
	}

	timer.SetMode(OneShot)
	if timer.Mode() != OneShot {
		t.Fatal("SetMode(OneShot) did not stick")
	}
}

func TestRunStopIsRunning(t *testing.T) {
	sim := reg.NewSimulator()
	timer := New(0x1000, sim, Instance0)

	if timer.IsRunning() {
		t.Fatal("new Timer reports running")
	}

	timer.Run()
	if !timer.IsRunning() {
		t.Fatal("Run did not set RUN")
	}

	timer.Stop()
	if timer.IsRunning() {
		t.Fatal("Stop did not clear RUN")
	}
}

func TestReset(t *testing.T) {
	sim := reg.NewSimulator()
	timer := New(0x1000, sim, Instance0)

	timer.SetLoad(1000)
	timer.SetMode(Repeat)
	timer.Run()

	sim.Poke(0x1000+ctrlOffset0, sim.Peek(0x1000+ctrlOffset0)|1<<ctrlELAPSED)

	timer.Reset()

	if timer.IsElapsed() {
		t.Fatal("Reset did not clear Elapsed")
	}
	if timer.Load() != 1000 {
		t.Fatal("Reset changed the configured Load value")
	}
	if timer.Mode() != Repeat {
		t.Fatal("Reset changed the configured Mode")
	}
}

func TestElapsed(t *testing.T) {
	sim := reg.NewSimulator()
	timer := New(0x1000, sim, Instance0)

	if timer.IsElapsed() {
		t.Fatal("new Timer reports Elapsed")
	}

	sim.Poke(0x1000+ctrlOffset0, sim.Peek(0x1000+ctrlOffset0)|1<<ctrlELAPSED)
	if !timer.IsElapsed() {
		t.Fatal("IsElapsed did not observe the hardware-set bit")
	}

	timer.ClearElapsed()
	if timer.IsElapsed() {
		t.Fatal("ClearElapsed did not clear Elapsed")
	}
}

func TestInterruptEnable(t *testing.T) {
	sim := reg.NewSimulator()
	timer := New(0x1000, sim, Instance0)

	if timer.IsInterruptEnabled() {
		t.Fatal("new Timer reports interrupt enabled")
	}

	timer.SetInterruptEnabled(true)
	if !timer.IsInterruptEnabled() {
		t.Fatal("SetInterruptEnabled(true) did not take effect")
	}

	timer.SetInterruptEnabled(false)
	if timer.IsInterruptEnabled() {
		t.Fatal("SetInterruptEnabled(false) did not take effect")
	}
}

func TestInstancesIndependent(t *testing.T) {
	sim := reg.NewSimulator()
	t0 := New(0x1000, sim, Instance0)
	t1 := New(0x1000, sim, Instance1)

	t0.SetLoad(111)
	t1.SetLoad(222)

	if got := t0.Load(); got != 111 {
		t.Fatalf("Instance0 Load = %d, want 111", got)
	}
	if got := t1.Load(); got != 222 {
		t.Fatalf("Instance1 Load = %d, want 222", got)
	}

	t0.Run()
	if !t0.IsRunning() {
		t.Fatal("Instance0 Run did not take effect")
	}
	if t1.IsRunning() {
		t.Fatal("Instance0's Run affected Instance1's RUN bit")
	}
}
