// Bitwise helpers for assembling register and descriptor images.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package bits provides primitives for bitwise operations on uint32 values
// held in ordinary (non-MMIO) memory, such as a Queue Head or Transfer
// Descriptor image being assembled before it is published to hardware.
package bits

// Get returns the masked value at a bit position.
func Get(word *uint32, pos int, mask uint32) uint32 {
	return (*word >> pos) & mask
}

// Set sets an individual bit.
func Set(word *uint32, pos int) {
	*word |= 1 << pos
}

// Clear clears an individual bit.
func Clear(word *uint32, pos int) {
	*word &^= 1 << pos
}

// SetTo sets or clears an individual bit depending on val.
func SetTo(word *uint32, pos int, val bool) {
	if val {
		Set(word, pos)
	} else {
		Clear(word, pos)
	}
}

// SetN sets a masked field at a bit position to val.
func SetN(word *uint32, pos int, mask uint32, val uint32) {
	*word = (*word &^ (mask << pos)) | ((val & mask) << pos)
}
