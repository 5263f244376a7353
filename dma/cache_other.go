//go:build !tamago

// Host build: no real data cache to maintain.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dma

func cacheCleanRange(buf []byte)      {}
func cacheInvalidateRange(buf []byte) {}
