// Per-endpoint descriptor table.
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

// DefaultMaxEndpoints is the endpoint count found on most i.MX RT parts.
// The exact count varies (typically 8, some parts fewer); callers on a
// part with a different count should construct EndpointState with
// NewEndpointState(n) directly rather than relying on this constant.
const DefaultMaxEndpoints = 8

// endpointSlot holds everything the driver tracks for one (number,
// direction) pair: hardware configuration that must survive a bus reset,
// and transfer bookkeeping that does not.
type endpointSlot struct {
	configured bool
	typ        EndpointType
	maxPacket  uint16
	zlt        bool

	buf     []byte
	bufAddr uint32
	tdAddr  uint32
	td      *td

	queued         int
	lastCompletion int
	pairTypeKnown  bool
}

// EndpointState is the 2×N per-direction-per-endpoint descriptor table
// (§4.C). It is constructed once, independently of any Bus, and handed to
// NewBus by pointer; its lifetime must exceed that of every Bus built on
// top of it (invariant 6).
type EndpointState struct {
	maxEndpoints int
	slots        []endpointSlot
}

// NewEndpointState allocates a state table sized for maxEndpoints endpoint
// numbers (2*maxEndpoints slots, one per direction).
func NewEndpointState(maxEndpoints int) *EndpointState {
	if maxEndpoints <= 0 {
		maxEndpoints = DefaultMaxEndpoints
	}

	return &EndpointState{
		maxEndpoints: maxEndpoints,
		slots:        make([]endpointSlot, maxEndpoints*2),
	}
}

// MaxEndpoints returns the endpoint-number count this table was sized for.
func (s *EndpointState) MaxEndpoints() int {
	return s.maxEndpoints
}

func (s *EndpointState) index(addr Address) int {
	return addr.Number()*2 + int(addr.Dir())
}

func (s *EndpointState) slot(addr Address) *endpointSlot {
	return &s.slots[s.index(addr)]
}

func (s *EndpointState) pair(addr Address) *endpointSlot {
	return &s.slots[addr.Number()*2+int(addr.Dir().opposite())]
}
