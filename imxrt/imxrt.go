// NXP i.MX RT Cortex-M7 SoC wiring for the USBOH3USBO2 device controllers.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package imxrt binds the usb and gpt packages to the register base
// addresses of the i.MX RT106x/102x family (the USBOH3USBO2 core and its
// companion USBPHY appear at the same offsets across the family), the way
// the teacher's soc/nxp/imx6ul package binds soc/nxp/usb to i.MX6UL
// addresses.
package imxrt

import (
	"github.com/nxp-rt/imxrt-usbd/gpt"
	"github.com/nxp-rt/imxrt-usbd/internal/reg"
	"github.com/nxp-rt/imxrt-usbd/usb"
)

// Peripheral base addresses (i.MX RT1060 Reference Manual, memory map).
const (
	USB1_BASE = 0x402e0000
	USB2_BASE = 0x402e0200

	USBPHY1_BASE = 0x400d9000
	USBPHY2_BASE = 0x400da000
)

// MaxEndpoints is the endpoint-number count implemented by the i.MX RT
// USBOH3USBO2 instances.
const MaxEndpoints = 8

// NewUSB1 constructs a Bus for USB controller 1, backed by arena, sharing
// endpoint state across resets via state. opts are forwarded to
// usb.NewBus, letting a caller install WithCriticalSections or override the
// accessor for host-side tests.
func NewUSB1(arena []byte, state *usb.EndpointState, opts ...usb.Option) *usb.Bus {
	return newBus(USB1_BASE, USBPHY1_BASE, arena, state, opts...)
}

// NewUSB2 constructs a Bus for USB controller 2.
func NewUSB2(arena []byte, state *usb.EndpointState, opts ...usb.Option) *usb.Bus {
	return newBus(USB2_BASE, USBPHY2_BASE, arena, state, opts...)
}

func newBus(base, phy uint32, arena []byte, state *usb.EndpointState, opts ...usb.Option) *usb.Bus {
	regs := usb.BusRegisters{Base: base, PHY: phy}
	return usb.NewBus(regs, arena, state, opts...)
}

// GPT1 returns the pair of GPT timers sharing USB controller 1's register
// block, using acc for register access (reg.MMIO on tamago targets, a
// *reg.Simulator in host-side tests).
func GPT1(acc reg.Accessor) (t0, t1 *gpt.Timer) {
	return gpt.New(USB1_BASE, acc, gpt.Instance0), gpt.New(USB1_BASE, acc, gpt.Instance1)
}

// GPT2 returns the pair of GPT timers sharing USB controller 2's register
// block.
func GPT2(acc reg.Accessor) (t0, t1 *gpt.Timer) {
	return gpt.New(USB2_BASE, acc, gpt.Instance0), gpt.New(USB2_BASE, acc, gpt.Instance1)
}
