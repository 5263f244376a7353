// Endpoint Transfer Descriptor (dTD).
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

import (
	"unsafe"

	"github.com/nxp-rt/imxrt-usbd/internal/bits"
)

// Transfer Descriptor layout constants (56.4.5.2, IMX6ULLRM; the i.MX RT
// reference manuals describe the identical dTD shape under the same
// section number for the USBOH3USBO2 core).
const (
	tdAlign = 32
	tdSize  = 32
	tdPages = 5

	tdPageSize = 4096

	tokenTotal  = 16
	tokenIOC    = 15
	tokenMultO  = 10
	tokenActive = 7
	tokenStatus = 0
	tokenStatusMask = 0xff

	tdNextInvalid = 1
)

// td mirrors the 32-byte hardware Transfer Descriptor. It is never copied
// by value across a publish boundary: callers obtain a *td by overlaying it
// directly onto pool memory, so writes through the pointer are writes to
// the exact bytes the DMA engine (or, in tests, the driver's own
// completion bookkeeping) will observe.
type td struct {
	Next  uint32
	Token uint32
	Page  [tdPages]uint32
	_     uint32 // pad to 32 bytes
}

// overlayTD interprets buf (which must be at least tdSize bytes, 32-byte
// aligned — guaranteed by dma.Pool.Carve) as a live *td.
func overlayTD(buf []byte) *td {
	return (*td)(unsafe.Pointer(&buf[0]))
}

// build fills t in place for a transfer of size bytes starting at addr, per
// "Building a Transfer Descriptor" (56.4.6.6.2, IMX6ULLRM): next pointer
// invalidated, IOC and active set, total bytes recorded, and up to
// tdPages*tdPageSize bytes of scatter-gather window populated.
func (t *td) build(addr uint32, size int) {
	t.Next = tdNextInvalid
	t.Token = 0

	bits.Set(&t.Token, tokenIOC)
	bits.SetN(&t.Token, tokenMultO, 0b11, 0)
	bits.Set(&t.Token, tokenActive)
	bits.SetN(&t.Token, tokenTotal, 0xffff, uint32(size))

	for i := 0; i < tdPages; i++ {
		t.Page[i] = addr + uint32(i*tdPageSize)
	}
}

// active reports the TD active bit (invariant 2: owned by hardware while set).
func (t *td) active() bool {
	return bits.Get(&t.Token, tokenActive, 1) == 1
}

// clearActive clears the active and halt/status bits, used when re-arming
// an endpoint after a completed or flushed transfer.
func (t *td) clearActive() {
	bits.Clear(&t.Token, tokenActive)
	bits.SetN(&t.Token, tokenStatus, tokenStatusMask, 0)
}

// status returns the TD's 8-bit status field (halted, buffer error, ...).
func (t *td) status() uint32 {
	return bits.Get(&t.Token, tokenStatus, tokenStatusMask)
}

// remaining returns TOKEN_TOTAL, i.e. the bytes not yet moved — decremented
// by hardware as the transfer progresses and, on a short OUT packet, left
// non-zero at completion.
func (t *td) remaining() int {
	return int(bits.Get(&t.Token, tokenTotal, 0xffff))
}
