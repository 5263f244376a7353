//go:build !tamago

package usb

import "github.com/nxp-rt/imxrt-usbd/internal/reg"

// newDefaultAccessor returns a fresh Simulator when no WithAccessor option
// overrides it, so a Bus constructed in a host-side test is usable without
// every test needing to pass one explicitly.
func newDefaultAccessor() reg.Accessor {
	return reg.NewSimulator()
}
