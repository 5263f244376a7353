// Write-publish / read-prepare cache-maintenance discipline (invariant 4).
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dma

import "runtime"

// PublishWrite makes driver writes to buf visible to the controller's DMA
// engine: a memory barrier, plus (on systems with a data cache) a cache
// clean of the exact range. Call it after filling a TD/QH/IN buffer and
// before the MMIO action that hands ownership to hardware (setting
// ENDPTPRIME).
//
// On non-tamago builds this reduces to runtime.KeepAlive, which is enough
// to keep buf reachable across the call for the benefit of tests that
// inspect it afterwards; real barrier and cache-clean instructions are
// supplied by cacheCleanRange on tamago targets with a data cache.
func PublishWrite(buf []byte) {
	cacheCleanRange(buf)
	runtime.KeepAlive(buf)
}

// PrepareRead makes controller-written bytes visible to the driver: a
// memory barrier, plus (on systems with a data cache) a cache invalidate of
// the exact range. Call it before copying out of a completed OUT buffer.
func PrepareRead(buf []byte) {
	cacheInvalidateRange(buf)
	runtime.KeepAlive(buf)
}
