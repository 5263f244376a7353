// Endpoint Queue Head (dQH) and the queue head list.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

import (
	"unsafe"

	"github.com/nxp-rt/imxrt-usbd/internal/bits"
)

// Queue Head layout constants (56.4.5.1, IMX6ULLRM).
const (
	qhListAlign = 2048
	qhAlign     = 64
	qhSize      = 64

	infoMult = 30
	infoZLT  = 29
	infoMPL  = 16
	infoIOS  = 15
)

// qh mirrors the 64-byte hardware Queue Head: a fixed header (max packet
// length, ZLT, interrupt-on-setup) followed by an overlay region that
// receives a copy of whichever td is primed, and a two-slot setup tripwire
// buffer that only endpoint 0 OUT's head ever has populated by hardware.
type qh struct {
	Info    uint32
	Current uint32
	// Overlay: populated by the driver at prime time with a copy of the
	// corresponding td's fields, and by hardware during the transfer.
	Next  uint32
	Token uint32
	Page  [tdPages]uint32
	_     uint32
	Setup [8]byte
	_     [4]uint32 // pad the first (aligned) entry out to 64 bytes
}

// overlayQH interprets buf as a live *qh.
func overlayQH(buf []byte) *qh {
	return (*qh)(unsafe.Pointer(&buf[0]))
}

// configure sets the static header fields of a Queue Head (56.4.5.1,
// IMX6ULLRM): maximum packet length, zero-length termination, and, for
// endpoint 0, interrupt-on-setup.
func (q *qh) configure(number int, maxPacket uint16, zlt bool) {
	q.Info = 0

	bits.SetN(&q.Info, infoMult, 0b11, 0)
	bits.SetN(&q.Info, infoMPL, 0x7ff, uint32(maxPacket))
	bits.SetTo(&q.Info, infoZLT, !zlt)

	if number == 0 {
		bits.Set(&q.Info, infoIOS)
	}
}

// setZLT updates the Queue Head's zero-length-termination bit in place,
// without disturbing max packet length or any other field.
func (q *qh) setZLT(zlt bool) {
	bits.SetTo(&q.Info, infoZLT, !zlt)
}

// maxPacket returns the configured maximum packet length field.
func (q *qh) maxPacket() uint16 {
	return uint16(bits.Get(&q.Info, infoMPL, 0x7ff))
}

// zlt returns whether zero-length termination is enabled.
func (q *qh) zlt() bool {
	return bits.Get(&q.Info, infoZLT, 1) == 0
}

// loadOverlay copies a td's transfer fields into the Queue Head's overlay
// region — the handoff step (3) of the prime sequence in §4.D, required
// because hardware begins a newly primed transfer from the dQH overlay
// rather than by dereferencing Current on the very first prime.
func (q *qh) loadOverlay(t *td) {
	q.Next = t.Next
	q.Token = t.Token
	q.Page = t.Page
}

// setupData returns the 8 bytes captured by the hardware setup tripwire
// (56.4.6.4.2.1, IMX6ULLRM), in USB wire order.
func (q *qh) setupData() [8]byte {
	return q.Setup
}
