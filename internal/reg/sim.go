// In-memory register simulation for host-side tests.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package reg

// Simulator is an Accessor backed by a plain map, standing in for the "host
// with a mock register block" required by the driver's testable
// properties. It is not specific to any one register layout: a test suite
// configures it with hooks that emulate the specific hardware side effects
// it needs (the usb tests self-clear USBCMD.RST, mirror ENDPTPRIME into
// ENDPTSTAT and model write-1-to-clear status registers; this package's
// own tests flip a bit on Read).
type Simulator struct {
	mem map[uint32]uint32

	// OnRead, if set, is invoked after every Read and may mutate the
	// simulated memory (e.g. to model a register that free-runs or that
	// hardware updates as a side effect of software reading it).
	OnRead func(s *Simulator, addr uint32, val uint32)

	// OnWrite, if set, is invoked after every Write and may mutate the
	// simulated memory (e.g. write-1-to-clear semantics, or hardware
	// reacting to a command bit by flipping a status bit).
	OnWrite func(s *Simulator, addr uint32, val uint32)

	// Trace records every access in order, useful for asserting that an
	// operation was, or was not, idempotent (§8 property 3: priming an
	// already-primed endpoint performs no secondary register writes).
	Trace []Access
}

// Access records one simulated register access.
type Access struct {
	Write bool
	Addr  uint32
	Val   uint32
}

// NewSimulator returns an empty register simulation. All addresses read
// before being written return zero.
func NewSimulator() *Simulator {
	return &Simulator{mem: make(map[uint32]uint32)}
}

// Read implements Accessor.
func (s *Simulator) Read(addr uint32) uint32 {
	val := s.mem[addr]
	s.Trace = append(s.Trace, Access{Write: false, Addr: addr, Val: val})

	if s.OnRead != nil {
		s.OnRead(s, addr, val)
		val = s.mem[addr]
	}

	return val
}

// Write implements Accessor.
func (s *Simulator) Write(addr uint32, val uint32) {
	s.mem[addr] = val
	s.Trace = append(s.Trace, Access{Write: true, Addr: addr, Val: val})

	if s.OnWrite != nil {
		s.OnWrite(s, addr, val)
	}
}

// Poke sets a register's raw value directly, bypassing OnWrite and Trace,
// used by tests to seed hardware-initiated state (e.g. a completed TD's
// token word) without going through the software write path.
func (s *Simulator) Poke(addr uint32, val uint32) {
	s.mem[addr] = val
}

// Peek returns a register's raw value directly, bypassing OnRead and Trace.
func (s *Simulator) Peek(addr uint32) uint32 {
	return s.mem[addr]
}

// WriteCount returns how many Write accesses were recorded for addr, used
// to assert idempotence of operations like Prime.
func (s *Simulator) WriteCount(addr uint32) int {
	n := 0

	for _, a := range s.Trace {
		if a.Write && a.Addr == addr {
			n++
		}
	}

	return n
}

// ResetTrace clears the access trace without touching simulated memory.
func (s *Simulator) ResetTrace() {
	s.Trace = nil
}
