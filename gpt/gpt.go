// General Purpose Timer subunit of the USBOH3USBO2 core.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package gpt drives the two free-running timers (GPTIMER0/1) that share
// the USB core's register block (56.6.8-11, IMX6ULLRM).
package gpt

import "github.com/nxp-rt/imxrt-usbd/internal/reg"

// Instance selects which of the two GPT timers a Timer controls.
type Instance int

const (
	Instance0 Instance = iota
	Instance1
)

// Mode selects whether a Timer halts or free-runs after reaching zero.
type Mode int

const (
	// OneShot counts down from Load once, raises Elapsed, and halts.
	OneShot Mode = iota
	// Repeat reloads from Load and raises Elapsed on every zero crossing.
	Repeat
)

const (
	ldOffset0   = 0x80
	ctrlOffset0 = 0x84
	ldOffset1   = 0x88
	ctrlOffset1 = 0x8c

	ctrlRUN     = 31
	ctrlMODE    = 30
	ctrlRST     = 29
	ctrlIE      = 27
	ctrlELAPSED = 26
)

// Timer is one GPT instance.
type Timer struct {
	core      reg.Block
	instance  Instance
	ldOffset  uint32
	ctrlOffset uint32
}

// New binds a Timer to instance within the USB core register block at
// base, using acc for register access.
func New(base uint32, acc reg.Accessor, instance Instance) *Timer {
	t := &Timer{
		core:     reg.NewBlock(base, acc),
		instance: instance,
	}

	if instance == Instance0 {
		t.ldOffset, t.ctrlOffset = ldOffset0, ctrlOffset0
	} else {
		t.ldOffset, t.ctrlOffset = ldOffset1, ctrlOffset1
	}

	return t
}

// Instance returns which GPT instance this Timer controls.
func (t *Timer) Instance() Instance {
	return t.instance
}

// SetLoad sets the reload value, in microseconds, used the next time the
// counter restarts (at Run, or at each Repeat zero crossing).
func (t *Timer) SetLoad(us uint32) {
	t.core.Write(t.ldOffset, us)
}

// Load returns the currently configured reload value.
func (t *Timer) Load() uint32 {
	return t.core.Read(t.ldOffset)
}

// SetMode selects OneShot or Repeat behavior.
func (t *Timer) SetMode(m Mode) {
	if m == Repeat {
		t.core.Set(t.ctrlOffset, ctrlMODE)
	} else {
		t.core.Clear(t.ctrlOffset, ctrlMODE)
	}
}

// Mode returns the currently configured mode.
func (t *Timer) Mode() Mode {
	if t.core.Get(t.ctrlOffset, ctrlMODE, 1) == 1 {
		return Repeat
	}
	return OneShot
}

// Run starts the counter from Load.
func (t *Timer) Run() {
	t.core.Set(t.ctrlOffset, ctrlRUN)
}

// Stop halts the counter without clearing Elapsed or rewinding it.
func (t *Timer) Stop() {
	t.core.Clear(t.ctrlOffset, ctrlRUN)
}

// IsRunning reports whether the counter is currently running.
func (t *Timer) IsRunning() bool {
	return t.core.Get(t.ctrlOffset, ctrlRUN, 1) == 1
}

// Reset stops the counter, clears Elapsed, and rewinds the counter to
// Load, preserving the configured load value and mode.
func (t *Timer) Reset() {
	t.core.Clear(t.ctrlOffset, ctrlRUN)
	t.core.Set(t.ctrlOffset, ctrlRST)
	t.core.Clear(t.ctrlOffset, ctrlRST)
	t.ClearElapsed()
}

// IsElapsed reports whether the counter has reached zero since the last
// ClearElapsed. In OneShot mode the counter also halts (IsRunning becomes
// false) the same moment Elapsed is raised; in Repeat mode the counter
// keeps running and Elapsed is raised again at every zero crossing.
func (t *Timer) IsElapsed() bool {
	return t.core.Get(t.ctrlOffset, ctrlELAPSED, 1) == 1
}

// ClearElapsed clears the elapsed condition by writing 0 to the ELAPSED
// bit; the other control bits are left as they are.
func (t *Timer) ClearElapsed() {
	t.core.Clear(t.ctrlOffset, ctrlELAPSED)
}

// SetInterruptEnabled enables or disables interrupt generation on elapse.
func (t *Timer) SetInterruptEnabled(enabled bool) {
	if enabled {
		t.core.Set(t.ctrlOffset, ctrlIE)
	} else {
		t.core.Clear(t.ctrlOffset, ctrlIE)
	}
}

// IsInterruptEnabled reports whether interrupt generation is enabled.
func (t *Timer) IsInterruptEnabled() bool {
	return t.core.Get(t.ctrlOffset, ctrlIE, 1) == 1
}
