// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

import (
	"testing"

	"github.com/nxp-rt/imxrt-usbd/gpt"
	"github.com/nxp-rt/imxrt-usbd/internal/reg"
)

// newTestBus constructs a Bus backed by a reg.Simulator wired up to mimic
// just enough hardware behavior for the driver's own polling loops to make
// progress: USBCMD.RST self-clears, ENDPTPRIME mirrors into ENDPTSTAT, and
// USBSTS and ENDPTCOMPLETE behave as write-1-to-clear rather than the
// Simulator's default plain overwrite. setSTS lets a test raise USBSTS
// condition bits the way hardware would.
func newTestBus(maxEndpoints int) (bus *Bus, sim *reg.Simulator, setSTS func(bits uint32)) {
	sim = reg.NewSimulator()

	const base, phy = 0x1000, 0x2000

	var sts uint32

	sim.OnWrite = func(s *reg.Simulator, addr, val uint32) {
		switch addr {
		case base + regUSBCMD:
			if val&(1<<cmdRST) != 0 {
				s.Poke(addr, val&^(1<<cmdRST))
			}
		case base + regUSBSTS:
			sts &^= val
			s.Poke(addr, sts)
		case base + regENDPTPRIME:
			if val != 0 {
				s.Poke(base+regENDPTSTAT, s.Peek(base+regENDPTSTAT)|val)
			}
		case base + regENDPTCOMPLETE:
			// The Simulator has already stored val, so the bits pending
			// before the write are not known here; the tests raise one
			// completion at a time, and clearing the register models
			// write-1-to-clear for that case.
			s.Poke(addr, 0)
		}
	}

	state := NewEndpointState(maxEndpoints)
	bus = NewBus(BusRegisters{Base: base, PHY: phy}, make([]byte, 16*1024), state, WithAccessor(sim))

	setSTS = func(bitsVal uint32) {
		sts |= bitsVal
		sim.Poke(base+regUSBSTS, sts)
	}

	return bus, sim, setSTS
}

func TestEnableHighSpeed(t *testing.T) {
	b, sim, _ := newTestBus(8)
	b.Enable(SpeedHigh)

	if sim.Peek(b.core.Base+regUSBCMD)&(1<<cmdRS) == 0 {
		t.Fatal("Enable did not set USBCMD.RS")
	}
	if got := sim.Peek(b.core.Base + regENDPOINTLISTADDR); got != b.qhListAddr {
		t.Fatalf("ENDPOINTLISTADDR = %#x, want %#x", got, b.qhListAddr)
	}
	if sim.Peek(b.core.Base+regPORTSC1)&(1<<portscPFSC) != 0 {
		t.Fatal("SpeedHigh must not set PORTSC1.PFSC")
	}
}

func TestEnableLowFullSpeed(t *testing.T) {
	b, sim, _ := newTestBus(8)
	b.Enable(SpeedLowFull)

	if sim.Peek(b.core.Base+regPORTSC1)&(1<<portscPFSC) == 0 {
		t.Fatal("SpeedLowFull did not set PORTSC1.PFSC")
	}
}

func TestSuspendResume(t *testing.T) {
	b, _, setSTS := newTestBus(8)
	b.Enable(SpeedHigh)

	setSTS(1 << stsSLI)
	if res := b.Poll(); res.Kind != ResultSuspend {
		t.Fatalf("Poll = %v, want ResultSuspend", res.Kind)
	}
	b.Suspend()

	setSTS(1 << stsPCI)
	if res := b.Poll(); res.Kind != ResultResume {
		t.Fatalf("Poll = %v, want ResultResume", res.Kind)
	}
	b.Resume()
}

func TestSetDeviceAddress(t *testing.T) {
	b, sim, _ := newTestBus(8)
	b.Enable(SpeedHigh)

	b.SetDeviceAddress(5)

	got := sim.Peek(b.core.Base + regDEVICEADDR)
	if field := (got >> deviceaddrUSBADR) & deviceaddrUSBADRMask; field != 5 {
		t.Fatalf("DEVICEADDR.USBADR = %d, want 5", field)
	}
	if got&(1<<deviceaddrADRA) == 0 {
		t.Fatal("SetDeviceAddress did not set ADRA")
	}
}

func TestAllocEndpointControl(t *testing.T) {
	b, _, _ := newTestBus(8)
	b.Enable(SpeedHigh)

	addr, err := b.AllocEndpoint(Out, Control, 64, 0)
	if err != nil {
		t.Fatalf("AllocEndpoint: %v", err)
	}
	if addr != Address0Out {
		t.Fatalf("AllocEndpoint(Control) = %v, want Address0Out", addr)
	}

	if got := b.qhAt(addr).maxPacket(); got != 64 {
		t.Fatalf("queue head max packet = %d, want 64", got)
	}
}

func TestAllocEndpointPairTypeConflict(t *testing.T) {
	b, _, _ := newTestBus(8)
	b.Enable(SpeedHigh)

	if _, err := b.AllocEndpoint(Out, Bulk, 64, 0); err != nil {
		t.Fatalf("AllocEndpoint(Out, Bulk): %v", err)
	}

	if _, err := b.AllocEndpoint(In, Interrupt, 64, 0); err != ErrInvalidEndpoint {
		t.Fatalf("AllocEndpoint(In, Interrupt) = %v, want ErrInvalidEndpoint", err)
	}
}

func TestGptSharesRegisterBlock(t *testing.T) {
	b, _, _ := newTestBus(8)
	b.Enable(SpeedHigh)

	b.Gpt(gpt.Instance0).SetLoad(1000)
	b.Gpt(gpt.Instance1).SetLoad(2000)

	if got := b.Gpt(gpt.Instance0).Load(); got != 1000 {
		t.Fatalf("GPT0 Load = %d, want 1000", got)
	}
	if got := b.Gpt(gpt.Instance1).Load(); got != 2000 {
		t.Fatalf("GPT1 Load = %d, want 2000", got)
	}

	var ran bool
	b.GptFunc(gpt.Instance0, func(timer *gpt.Timer) {
		ran = true
		timer.Run()
	})
	if !ran {
		t.Fatal("GptFunc did not invoke fn")
	}
	if !b.Gpt(gpt.Instance0).IsRunning() {
		t.Fatal("GptFunc's Timer did not alias the Bus's own GPT0")
	}
}

func TestAllocEndpointOverflow(t *testing.T) {
	b, _, _ := newTestBus(8)
	b.Enable(SpeedHigh)

	for i := 0; i < 7; i++ {
		if _, err := b.AllocEndpoint(Out, Bulk, 64, 0); err != nil {
			t.Fatalf("AllocEndpoint #%d: %v", i, err)
		}
	}

	if _, err := b.AllocEndpoint(Out, Bulk, 64, 0); err != ErrEndpointOverflow {
		t.Fatalf("AllocEndpoint beyond capacity = %v, want ErrEndpointOverflow", err)
	}
}
