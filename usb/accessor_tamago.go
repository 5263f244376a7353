//go:build tamago

package usb

import "github.com/nxp-rt/imxrt-usbd/internal/reg"

// newDefaultAccessor returns the volatile MMIO accessor used when no
// WithAccessor option overrides it.
func newDefaultAccessor() reg.Accessor {
	return reg.MMIO{}
}
