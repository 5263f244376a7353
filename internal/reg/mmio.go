//go:build tamago

// Live MMIO register access.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package reg

import (
	"sync/atomic"
	"unsafe"
)

// MMIO is an Accessor backed by a live, caller-asserted register address.
//
// Construction of a Block around MMIO is the point at which the caller
// asserts, per §4.A/§9 of the design, that the supplied base address is
// live and exclusively owned by this driver instance for its lifetime; MMIO
// itself treats every address handed to it as already validated.
type MMIO struct{}

// Read performs a single volatile 32-bit load.
func (MMIO) Read(addr uint32) uint32 {
	reg := (*uint32)(unsafe.Pointer(uintptr(addr)))
	return atomic.LoadUint32(reg)
}

// Write performs a single volatile 32-bit store.
func (MMIO) Write(addr uint32, val uint32) {
	reg := (*uint32)(unsafe.Pointer(uintptr(addr)))
	atomic.StoreUint32(reg, val)
}
