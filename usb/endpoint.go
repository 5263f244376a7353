// Endpoint allocation and the transfer engine: the methods that move bytes
// through a Queue Head/Transfer Descriptor pair.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

import (
	"fmt"

	"github.com/nxp-rt/imxrt-usbd/dma"
)

// AllocEndpoint picks the lowest-numbered unconfigured endpoint slot for
// dir and records it as typ, maxPacketSize and interval. Endpoint 0 is
// reserved for Control and is allocated directly rather than searched for.
//
// The first non-control allocation of an endpoint number also records typ
// on the opposite direction's slot, so a later AllocEndpoint for the paired
// direction must request the same type.
func (b *Bus) AllocEndpoint(dir Direction, typ EndpointType, maxPacketSize uint16, interval uint8) (Address, error) {
	if typ == Control {
		addr := NewAddress(0, dir)

		if err := b.initEndpointMemory(addr, Control, maxPacketSize); err != nil {
			return 0, err
		}

		slot := b.state.slot(addr)
		slot.configured = true
		slot.typ = Control
		slot.maxPacket = maxPacketSize
		slot.zlt = false

		b.configureEndpoint(addr, maxPacketSize, false)

		return addr, nil
	}

	n := b.state.MaxEndpoints()

	for number := 1; number < n; number++ {
		addr := NewAddress(number, dir)
		slot := b.state.slot(addr)

		if slot.configured {
			continue
		}

		pair := b.state.pair(addr)
		if pair.pairTypeKnown && pair.typ != typ {
			return 0, ErrInvalidEndpoint
		}

		if err := b.initEndpointMemory(addr, typ, maxPacketSize); err != nil {
			return 0, err
		}

		slot.configured = true
		slot.typ = typ
		slot.maxPacket = maxPacketSize
		slot.pairTypeKnown = true

		pair.pairTypeKnown = true
		pair.typ = typ

		// ZLT starts disabled; EnableZLT is the only public path that turns
		// it on (§4.D), matching the teacher's per-endpoint Zero flag rather
		// than forcing it on for every non-control endpoint.
		b.configureEndpoint(addr, maxPacketSize, false)
		b.enableEndpoint(addr)

		return addr, nil
	}

	return 0, ErrEndpointOverflow
}

// bufferCapacity returns how large an endpoint's data buffer should be.
// max_packet only governs how hardware splits a transfer into individual
// wire packets (the TD's total-bytes field is independent of it, up to the
// 20 KiB scatter-gather limit of §3), so a non-control endpoint's buffer is
// sized well above a typical max_packet to let software queue a whole bulk
// transfer in one Write/Prime rather than one max_packet chunk at a time.
func bufferCapacity(typ EndpointType, maxPacket uint16) int {
	if typ == Control {
		if maxPacket < 64 {
			return 64
		}
		return int(maxPacket)
	}

	if maxPacket > 512 {
		return int(maxPacket)
	}

	return 512
}

// initEndpointMemory carves the endpoint's data buffer and its Transfer
// Descriptor out of the endpoint memory pool (§4.B).
func (b *Bus) initEndpointMemory(addr Address, typ EndpointType, maxPacket uint16) error {
	n, dir := addr.Number(), int(addr.Dir())

	bufAlloc, err := b.pool.Allocate(n, dir, bufferCapacity(typ, maxPacket))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEndpointAlloc, err)
	}

	tdAlloc, err := b.pool.Carve(tdSize, tdAlign)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEndpointAlloc, err)
	}

	slot := b.state.slot(addr)
	slot.buf = bufAlloc.Buf
	slot.bufAddr = bufAlloc.Addr
	slot.tdAddr = tdAlloc.Addr
	slot.td = overlayTD(tdAlloc.Buf)

	return nil
}

// enableEndpoint writes ENDPTCTRL for a non-control endpoint: sets the
// transfer type, enables the direction, and resets its data toggle to
// DATA0. Per the note at 56.6.34 (IMX6ULLRM), a direction's type bits must
// carry a valid value even when that direction is not yet enabled, so the
// opposite direction's type field is seeded with Bulk the first time one
// direction is configured; it is left untouched once that direction has
// itself been enabled.
func (b *Bus) enableEndpoint(addr Address) {
	n := addr.Number()
	if n == 0 {
		return
	}

	ctrl := regENDPTCTRL + uint32(4*n)
	typ := b.state.slot(addr).typ

	if addr.Dir() == In {
		b.core.SetN(ctrl, ectrlTXT, 0b11, uint32(typ))
		b.core.Set(ctrl, ectrlTXR)
		b.core.Set(ctrl, ectrlTXE)
		b.core.Clear(ctrl, ectrlTXS)

		if b.core.Get(ctrl, ectrlRXE, 1) == 0 {
			b.core.SetN(ctrl, ectrlRXT, 0b11, uint32(Bulk))
		}
	} else {
		b.core.SetN(ctrl, ectrlRXT, 0b11, uint32(typ))
		b.core.Set(ctrl, ectrlRXR)
		b.core.Set(ctrl, ectrlRXE)
		b.core.Clear(ctrl, ectrlRXS)

		if b.core.Get(ctrl, ectrlTXE, 1) == 0 {
			b.core.SetN(ctrl, ectrlTXT, 0b11, uint32(Bulk))
		}
	}
}

// configureEndpoint writes the Queue Head's max-packet-length and
// zero-length-termination fields and records them in the state table so
// they survive a bus reset (invariant: non-control endpoint configuration
// is preserved across Reset, §4.F).
func (b *Bus) configureEndpoint(addr Address, maxPacket uint16, zlt bool) {
	slot := b.state.slot(addr)
	slot.maxPacket = maxPacket
	slot.zlt = zlt

	b.qhAt(addr).configure(addr.Number(), maxPacket, zlt)
}

// EnableZLT sets the Queue Head's zero-length-termination bit without
// touching max packet length.
func (b *Bus) EnableZLT(addr Address) {
	slot := b.state.slot(addr)
	slot.zlt = true

	b.qhAt(addr).setZLT(true)
}

// DisableZLT clears the Queue Head's zero-length-termination bit without
// touching max packet length.
func (b *Bus) DisableZLT(addr Address) {
	slot := b.state.slot(addr)
	slot.zlt = false

	b.qhAt(addr).setZLT(false)
}

// Prime arms the endpoint's Transfer Descriptor and hands it to hardware.
// For IN it makes the bytes most recently queued by Write visible to the
// controller; for OUT it arms the TD with the full buffer capacity as the
// receive window. Priming an endpoint whose TD is already active is a
// no-op.
func (b *Bus) Prime(addr Address) error {
	slot := b.state.slot(addr)
	if !slot.configured {
		return ErrInvalidEndpoint
	}

	if slot.td.active() {
		return nil
	}

	dir := addr.Dir()

	size := len(slot.buf)
	if dir == In {
		size = slot.queued
	}

	slot.td.build(slot.bufAddr, size)

	if dir == In && size > 0 {
		dma.PublishWrite(slot.buf[:size])
	}

	q := b.qhAt(addr)
	q.loadOverlay(slot.td)
	dma.PublishWrite(b.qhBytes(addr))

	pos := epBit(addr)

	b.cs.Enter()
	b.core.Set(regENDPTPRIME, pos)
	b.cs.Exit()

	ok := b.core.WaitN(regENDPTSTAT, pos, 1, 1, primeRetryLimit)

	if ok {
		slot.lastCompletion = size
	}

	// If priming did not take within the retry budget, hardware raced a
	// new SETUP into this endpoint; the next Poll will observe the reset
	// or the new SETUP and re-drive the transfer (§5).
	return nil
}

// IsComplete reports whether addr's Transfer Descriptor has finished: the
// active bit must be clear AND the corresponding ENDPTCOMPLETE bit set —
// never the active bit alone (invariant 2).
func (b *Bus) IsComplete(addr Address) bool {
	slot := b.state.slot(addr)
	if !slot.configured {
		return false
	}

	if slot.td.active() {
		return false
	}

	return b.core.Get(regENDPTCOMPLETE, epBit(addr), 1) == 1
}

// ClearComplete performs the write-1-to-clear of addr's ENDPTCOMPLETE bit.
func (b *Bus) ClearComplete(addr Address) {
	b.core.Write(regENDPTCOMPLETE, 1<<uint(epBit(addr)))
}

// TransferLength returns the byte count actually moved by the most recently
// completed transfer on addr: for IN, the length originally primed; for
// OUT, the primed length minus the TD's remaining-bytes field.
func (b *Bus) TransferLength(addr Address) int {
	slot := b.state.slot(addr)
	if !slot.configured {
		return 0
	}

	if addr.Dir() == In {
		return slot.lastCompletion
	}

	return slot.lastCompletion - slot.td.remaining()
}

// Read copies a completed OUT transfer into dst, truncated to len(dst),
// and clears the completion bit. For endpoint 0 OUT while a SETUP packet is
// pending it instead returns the 8-byte packet captured by the setup
// tripwire (§4.E), ignoring the hardware receive buffer entirely.
func (b *Bus) Read(addr Address, dst []byte) (int, error) {
	slot := b.state.slot(addr)
	if !slot.configured {
		return 0, ErrInvalidEndpoint
	}

	if addr == Address0Out && b.pendingSetup != nil {
		setup := *b.pendingSetup
		b.pendingSetup = nil

		n := copy(dst, setup[:])

		return n, nil
	}

	dma.PrepareRead(slot.buf)

	n := b.TransferLength(addr)
	if n > len(slot.buf) {
		n = len(slot.buf)
	}

	copied := copy(dst, slot.buf[:n])

	b.ClearComplete(addr)

	return copied, nil
}

// Write queues up to len(src) bytes (bounded by the endpoint's buffer
// capacity) for transmission on addr and primes the transfer. It fails with
// ErrWouldBlock if a previous transfer on this direction is still active.
func (b *Bus) Write(addr Address, src []byte) (int, error) {
	slot := b.state.slot(addr)
	if !slot.configured {
		return 0, ErrInvalidEndpoint
	}

	if slot.td.active() {
		return 0, ErrWouldBlock
	}

	// Arming a new transfer clears a prior STALL on this direction: the
	// host only re-attempts the transfer after a CLEAR_FEATURE(ENDPOINT_HALT)
	// class request, by which point the device stack is already queuing the
	// next Write.
	b.SetStalled(addr, false)

	n := copy(slot.buf, src)
	slot.queued = n

	if err := b.Prime(addr); err != nil {
		return 0, err
	}

	return n, nil
}

// SetStalled sets or clears the STALL condition on addr. Stalling
// Address0In protocol-stalls both directions of endpoint 0, matching the
// hardware's shared control-endpoint handshake state.
func (b *Bus) SetStalled(addr Address, stalled bool) {
	n := addr.Number()
	ctrl := regENDPTCTRL + uint32(4*n)

	if n == 0 {
		b.core.SetN(ctrl, ectrlTXS, 1, boolBit(stalled))
		b.core.SetN(ctrl, ectrlRXS, 1, boolBit(stalled))
		return
	}

	if addr.Dir() == In {
		b.core.SetN(ctrl, ectrlTXS, 1, boolBit(stalled))
	} else {
		b.core.SetN(ctrl, ectrlRXS, 1, boolBit(stalled))
	}
}

// IsStalled reports whether addr currently carries the STALL condition.
func (b *Bus) IsStalled(addr Address) bool {
	n := addr.Number()
	ctrl := regENDPTCTRL + uint32(4*n)

	if addr.Dir() == In {
		return b.core.Get(ctrl, ectrlTXS, 1) == 1
	}

	return b.core.Get(ctrl, ectrlRXS, 1) == 1
}

func boolBit(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
