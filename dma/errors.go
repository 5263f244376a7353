// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dma

import "errors"

// ErrOutOfMemory is returned by Pool.Carve when the backing arena has no
// room left for the requested, aligned allocation.
var ErrOutOfMemory = errors.New("dma: endpoint memory pool exhausted")
