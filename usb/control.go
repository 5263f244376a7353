// Control-transfer state machine: the SETUP tripwire protocol and the
// event classification Poll hands to the device stack.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

// PollResult classifies what Poll observed on its most recent call.
// Reset, Resume and Suspend are mutually exclusive with each other and
// with Data; when more than one condition is pending simultaneously, Poll
// reports them in priority order Reset > Resume > Suspend > Data and
// leaves the lower-priority ones for the next call.
type PollResult struct {
	Kind PollKind

	// EPOut, EPInComplete and EPSetup are bitmasks valid only when Kind is
	// ResultData: bit i set means endpoint i has, respectively, a
	// completed OUT transfer, a completed IN transfer, or a pending SETUP
	// packet ready to be read with Read(NewAddress(i, Out), ...).
	EPOut        uint8
	EPInComplete uint8
	EPSetup      uint8
}

// PollKind is the variant tag of a PollResult.
type PollKind int

const (
	ResultNone PollKind = iota
	ResultReset
	ResultResume
	ResultSuspend
	ResultData
)

// Poll drains pending USBSTS events and classifies them, in priority order
// Reset > Resume > Suspend > Data (§4.F).
func (b *Bus) Poll() PollResult {
	sts := b.core.Read(regUSBSTS)

	if sts&(1<<stsURI) != 0 {
		b.core.Write(regUSBSTS, 1<<stsURI|1<<stsUI)
		b.Reset()
		return PollResult{Kind: ResultReset}
	}

	if sts&(1<<stsPCI) != 0 {
		b.core.Write(regUSBSTS, 1<<stsPCI)
		return PollResult{Kind: ResultResume}
	}

	if sts&(1<<stsSLI) != 0 {
		b.core.Write(regUSBSTS, 1<<stsSLI)
		return PollResult{Kind: ResultSuspend}
	}

	setupMask := uint8(b.core.Read(regENDPTSETUPSTAT))
	completeWord := b.core.Read(regENDPTCOMPLETE)

	if setupMask == 0 && completeWord == 0 {
		return PollResult{Kind: ResultNone}
	}

	result := PollResult{Kind: ResultData}

	for n := 0; n < b.state.MaxEndpoints(); n++ {
		if setupMask&(1<<uint(n)) != 0 {
			b.readSetup(n)
			result.EPSetup |= 1 << uint(n)
		}

		if completeWord&(1<<uint(n)) != 0 {
			result.EPOut |= 1 << uint(n)
		}

		if completeWord&(1<<uint(16+n)) != 0 {
			result.EPInComplete |= 1 << uint(n)
		}
	}

	return result
}

// readSetup executes the SETUP tripwire protocol (56.4.6.4.2.1, IMX6ULLRM)
// for endpoint number n: it captures the 8-byte packet atomically despite
// hardware being free to overwrite the Queue Head's tripwire buffer with a
// newer SETUP at any point, by re-copying until USBCMD.SUTW survives the
// copy unmolested.
func (b *Bus) readSetup(n int) {
	b.cs.Enter()
	defer b.cs.Exit()

	addr := NewAddress(n, Out)
	q := b.qhAt(addr)

	var setup [8]byte

	for {
		b.core.Set(regUSBCMD, cmdSUTW)

		setup = q.setupData()

		if b.core.Get(regUSBCMD, cmdSUTW, 1) == 1 {
			break
		}
	}

	b.core.Clear(regUSBCMD, cmdSUTW)

	// write-1-to-clear ENDPTSETUPSTAT for this endpoint
	b.core.Write(regENDPTSETUPSTAT, 1<<uint(n))

	// A new control transfer supersedes anything in flight on EP0: cancel
	// stale primes before the data/status stage primes its own TD.
	b.core.Write(regENDPTFLUSH, 1<<uint(epBit(Address0Out))|1<<uint(epBit(Address0In)))

	b.pendingSetup = &setup
}

// Reset runs the bus-reset sequence (56.4.6.2.1, IMX6ULLRM): clear
// setup/completion semaphores, flush every endpoint, and restore each
// configured non-control endpoint's Queue Head to its preserved
// max-packet/ZLT configuration. An earlier revision of this sequence
// rebuilt Queue Heads from scratch on reset, silently losing that
// configuration; this restores it instead of recomputing it.
//
// Poll calls this automatically the moment it observes USBSTS.URI, since
// the QH/TD bookkeeping it performs is required for the driver's own
// invariants regardless of what the device stack does. It is exported,
// and safe to call again, for a device stack that wants to explicitly
// acknowledge the reset it learned about from a PollResult of
// ResultReset rather than rely on Poll's side effect.
func (b *Bus) Reset() {
	b.core.WriteBack(regENDPTSETUPSTAT)
	b.core.WriteBack(regENDPTCOMPLETE)
	b.core.Write(regENDPTFLUSH, 0xffffffff)

	b.pendingSetup = nil

	for n := 0; n < b.state.MaxEndpoints(); n++ {
		for _, dir := range [...]Direction{Out, In} {
			addr := NewAddress(n, dir)
			slot := b.state.slot(addr)

			if !slot.configured {
				continue
			}

			slot.td.clearActive()
			slot.queued = 0
			slot.lastCompletion = 0

			b.qhAt(addr).configure(n, slot.maxPacket, slot.zlt)
		}
	}
}
