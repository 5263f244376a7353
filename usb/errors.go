// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

import "errors"

var (
	// ErrEndpointOverflow is returned by AllocEndpoint when no endpoint
	// slot compatible with the requested type and direction is free.
	ErrEndpointOverflow = errors.New("usb: no free endpoint for requested type")

	// ErrInvalidEndpoint is returned when a request's endpoint type
	// conflicts with the type already recorded for the paired direction,
	// or when Read/Write addresses an endpoint that was never allocated.
	ErrInvalidEndpoint = errors.New("usb: invalid or unconfigured endpoint")

	// ErrWouldBlock is returned by Write when a previous transfer on the
	// same endpoint direction is still active.
	ErrWouldBlock = errors.New("usb: endpoint busy")

	// ErrEndpointAlloc wraps a dma.ErrOutOfMemory surfaced through
	// AllocEndpoint, per §4.B: both errors.Is(err, ErrEndpointAlloc) and
	// errors.Is(err, dma.ErrOutOfMemory) hold for the error AllocEndpoint
	// actually returns.
	ErrEndpointAlloc = errors.New("usb: endpoint buffer allocation failed")
)
