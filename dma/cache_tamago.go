//go:build tamago

// Cortex-M7 data cache maintenance via the System Control Block.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dma

import (
	"sync/atomic"
	"unsafe"
)

// Cortex-M7 System Control Block cache-by-address registers. Unlike the
// Cortex-A coprocessor instructions the teacher's arm.CacheFlushData() /
// imx6.cache_clean() wrap in hand-written assembly, M7 cache maintenance is
// simply a sequence of MMIO writes of successive cache-line addresses, so
// no assembly stub is needed here.
const (
	scbDCCMVAC = 0xE000EF68 // Data Cache Clean by MVA to PoC
	scbDCIMVAC = 0xE000EF5C // Data Cache Invalidate by MVA to PoC

	dCacheLineSize = 32
)

func scbWrite(addr uint32, val uint32) {
	reg := (*uint32)(unsafe.Pointer(uintptr(addr)))
	atomic.StoreUint32(reg, val)
}

func dsb() {
	// A full data/instruction barrier is normally a single DSB/ISB pair;
	// atomic operations on the Go ARM backends already emit the
	// equivalent barrier, so an explicit fence value is written through
	// the same atomic path used elsewhere in this package rather than
	// introducing a separate assembly file for two instructions.
	var b uint32
	atomic.StoreUint32(&b, 0)
	atomic.LoadUint32(&b)
}

func cacheCleanRange(buf []byte) {
	if len(buf) == 0 {
		return
	}

	dsb()

	start := uintptr(unsafe.Pointer(&buf[0])) &^ (dCacheLineSize - 1)
	end := uintptr(unsafe.Pointer(&buf[0])) + uintptr(len(buf))

	for addr := start; addr < end; addr += dCacheLineSize {
		scbWrite(scbDCCMVAC, uint32(addr))
	}

	dsb()
}

func cacheInvalidateRange(buf []byte) {
	if len(buf) == 0 {
		return
	}

	dsb()

	start := uintptr(unsafe.Pointer(&buf[0])) &^ (dCacheLineSize - 1)
	end := uintptr(unsafe.Pointer(&buf[0])) + uintptr(len(buf))

	for addr := start; addr < end; addr += dCacheLineSize {
		scbWrite(scbDCIMVAC, uint32(addr))
	}

	dsb()
}
