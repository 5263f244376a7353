// NXP USBOH3USBO2-derived device-mode USB 2.0 controller driver, targeting
// the USBOH3USBO2 instances embedded in NXP i.MX RT Cortex-M MCUs.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package usb implements a polled, single-threaded driver for the device
// side of the USBOH3USBO2 USB 2.0 controller (56, IMX6ULLRM; the i.MX RT
// reference manuals describe the identical register layout under the same
// section), adopting:
//   - IMX6ULLRM - i.MX 6ULL Applications Processor Reference Manual
//   - USB2.0    - USB Specification Revision 2.0
//
// Unlike the teacher driver this package is derived from, which blocks each
// endpoint's transfer goroutine on a sync.Cond, every operation here returns
// promptly: an external device stack drives the bus by calling Poll and
// reacting to its result.
package usb

import (
	"github.com/nxp-rt/imxrt-usbd/dma"
	"github.com/nxp-rt/imxrt-usbd/gpt"
	"github.com/nxp-rt/imxrt-usbd/internal/reg"
)

// BusRegisters locates the two register windows a Bus needs: the USB core
// block and the USBPHY block.
type BusRegisters struct {
	Base uint32
	PHY  uint32
}

// CriticalSection brackets the register sequences that must not be
// interleaved with an interrupt handler touching the same endpoint:
// ENDPTPRIME's read-modify-write, and the SETUP tripwire sequence (§5).
type CriticalSection interface {
	Enter()
	Exit()
}

type noCriticalSection struct{}

func (noCriticalSection) Enter() {}
func (noCriticalSection) Exit()  {}

// Option configures a Bus at construction time.
type Option func(*Bus)

// WithCriticalSections installs cs around the register sequences that race
// with interrupt-context endpoint access. Without this option a Bus uses a
// no-op critical section, suitable for callers that already serialize
// access to the bus (a single interrupt source, a non-preemptive scheduler,
// or host-side tests).
func WithCriticalSections(cs CriticalSection) Option {
	return func(b *Bus) { b.cs = cs }
}

// WithAccessor overrides the reg.Accessor used for both register windows,
// used by host-side tests to install a *reg.Simulator. Production callers
// on tamago leave this unset and get reg.MMIO.
func WithAccessor(acc reg.Accessor) Option {
	return func(b *Bus) { b.accessor = acc }
}

// Bus is one USBOH3USBO2 controller instance in device mode. It owns the
// endpoint memory pool, the Queue Head list, and the per-endpoint state
// table, and exposes the transfer engine (td.go/qh.go/endpoint.go), the
// control state machine (control.go), and the bus lifecycle operations
// below as methods of a single type — mirroring the teacher's *USB, where
// the bus IS the transfer engine.
type Bus struct {
	core Block
	phy  Block

	accessor reg.Accessor
	cs       CriticalSection

	pool  *dma.Pool
	state *EndpointState

	qhListAddr uint32
	qhList     []byte

	speed Speed

	// pendingSetup, when non-nil, is the 8-byte packet captured by the most
	// recent control.go setup-tripwire read, awaiting delivery through
	// Read(Address0Out, ...).
	pendingSetup *[8]byte

	// gpt0/gpt1 are the two GPT timer subunits sharing this Bus's register
	// block (§4.G): an independent feature of the same peripheral, wired
	// here purely as a convenience accessor (imxrt.GPT1/GPT2 construct the
	// same timers without a Bus, for callers that want the timer and
	// nothing else).
	gpt0, gpt1 *gpt.Timer
}

// Block is a type alias kept for callers migrating register offsets;
// NewBus constructs the two underlying reg.Block values directly.
type Block = reg.Block

// NewBus constructs a Bus bound to regs, backed by arena for all Queue
// Head/Transfer Descriptor/endpoint buffer storage, and sharing state
// across resets (state's lifetime must exceed the Bus's, invariant 6). It
// performs USBPHY power-up but does not touch the USB core — call Enable
// for that.
func NewBus(regs BusRegisters, arena []byte, state *EndpointState, opts ...Option) *Bus {
	b := &Bus{
		state: state,
		cs:    noCriticalSection{},
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.accessor == nil {
		b.accessor = newDefaultAccessor()
	}

	b.core = reg.NewBlock(regs.Base, b.accessor)
	b.phy = reg.NewBlock(regs.PHY, b.accessor)
	b.pool = dma.NewPool(arena)

	b.gpt0 = gpt.New(regs.Base, b.accessor, gpt.Instance0)
	b.gpt1 = gpt.New(regs.Base, b.accessor, gpt.Instance1)

	b.initPHY()
	b.initQHList()

	return b
}

// Gpt returns the GPT timer subunit identified by instance.
func (b *Bus) Gpt(instance gpt.Instance) *gpt.Timer {
	if instance == gpt.Instance0 {
		return b.gpt0
	}
	return b.gpt1
}

// GptFunc invokes fn with the GPT timer subunit identified by instance.
func (b *Bus) GptFunc(instance gpt.Instance, fn func(*gpt.Timer)) {
	fn(b.Gpt(instance))
}

// initPHY performs the USBPHY soft-reset/power-up sequence (56.4.2, IMX6ULLRM).
func (b *Bus) initPHY() {
	b.phy.Set(phyCTRL, ctrlSFTRST)
	b.phy.Clear(phyCTRL, ctrlSFTRST)
	b.phy.Clear(phyCTRL, ctrlCLKGATE)
	b.phy.Write(phyPWD, 0)
}

// initQHList carves the 2×N Queue Head list (2048-byte aligned, 56.4.5.1,
// IMX6ULLRM) out of the pool and zeroes it.
func (b *Bus) initQHList() {
	n := b.state.MaxEndpoints()

	alloc, err := b.pool.Carve(n*2*qhSize, qhListAlign)
	if err != nil {
		panic("usb: endpoint memory pool too small for queue head list: " + err.Error())
	}

	for i := range alloc.Buf {
		alloc.Buf[i] = 0
	}

	b.qhList = alloc.Buf
	b.qhListAddr = alloc.Addr
}

func (b *Bus) qhIndex(addr Address) int {
	return addr.Number()*2 + int(addr.Dir())
}

func (b *Bus) qhAt(addr Address) *qh {
	i := b.qhIndex(addr)
	return overlayQH(b.qhList[i*qhSize : (i+1)*qhSize])
}

func (b *Bus) qhBytes(addr Address) []byte {
	i := b.qhIndex(addr)
	return b.qhList[i*qhSize : (i+1)*qhSize]
}

// epBit returns the bit position used for addr across ENDPTPRIME,
// ENDPTFLUSH, ENDPTSTAT and ENDPTCOMPLETE: bit n for OUT, bit n+16 for IN
// (56.6.29-32, IMX6ULLRM).
func epBit(addr Address) int {
	if addr.Dir() == In {
		return 16 + addr.Number()
	}
	return addr.Number()
}

// Enable resets the USB core, configures device mode at the requested
// speed, publishes the Queue Head list address, and starts the controller
// (USBCMD.RS). Calling Enable again on an already-running Bus re-resets it.
func (b *Bus) Enable(speed Speed) {
	b.speed = speed

	b.core.Set(regUSBCMD, cmdRST)
	b.core.Wait(regUSBCMD, cmdRST, 1, 0)

	b.core.SetN(regUSBMODE, usbmodeCM, usbmodeCMMask, usbmodeCMDevice)
	// little-endian, setup lockout disabled in favor of the SUTW tripwire
	b.core.Clear(regUSBMODE, usbmodeSLOM)
	b.core.Clear(regUSBMODE, usbmodeSDIS)

	b.core.Write(regENDPOINTLISTADDR, b.qhListAddr)

	if speed == SpeedLowFull {
		b.core.Set(regPORTSC1, portscPFSC)
	} else {
		b.core.Clear(regPORTSC1, portscPFSC)
	}

	b.core.Set(regUSBINTR, intrURE)
	b.core.Set(regUSBINTR, intrUE)
	b.core.Set(regUSBINTR, intrUEE)
	b.core.Set(regUSBINTR, intrSLE)
	b.core.Set(regUSBINTR, intrPCE)

	b.core.Set(regUSBCMD, cmdRS)
}

// Suspend acknowledges the suspend status (USBSTS.SLI) and leaves endpoint
// configuration untouched; per §4.F there is nothing else for the bus to
// do on suspend, the controller handles the electrical signaling
// autonomously.
func (b *Bus) Suspend() {
	b.core.Write(regUSBSTS, 1<<stsSLI)
}

// Resume clears the suspend/resume status (USBSTS.SLI and USBSTS.PCI) so a
// subsequent Poll does not re-report it. Other pending USBSTS bits are
// left for Poll.
func (b *Bus) Resume() {
	b.core.Write(regUSBSTS, 1<<stsSLI|1<<stsPCI)
}

// SetDeviceAddress programs the device address for the next token, via the
// deferred-assignment path (ADRA) so the address takes effect only after
// the in-flight status stage completes (56.4.6.4.2.3, IMX6ULLRM).
func (b *Bus) SetDeviceAddress(addr uint8) {
	b.core.SetN(regDEVICEADDR, deviceaddrUSBADR, deviceaddrUSBADRMask, uint32(addr))
	b.core.Set(regDEVICEADDR, deviceaddrADRA)
}
