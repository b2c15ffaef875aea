// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ipam

import (
	"fmt"
	"net"

	"github.com/go-errors/errors"
)

// cursor tracks the next free address within one block (the master block or
// one aggregate). The pointer only ever moves forward; next == limit+1 means
// the block is fully consumed. next is kept as uint64 so that the
// one-past-end position of 255.255.255.255/... blocks stays representable.
type cursor struct {
	block *net.IPNet
	next  uint64
	limit uint32
}

// newCursor anchors a cursor at the network address of the given block.
func newCursor(block *net.IPNet) (*cursor, error) {
	start, err := ipv4ToUint32(NetworkAddress(block))
	if err != nil {
		return nil, err
	}
	end, err := ipv4ToUint32(BroadcastAddress(block))
	if err != nil {
		return nil, err
	}
	return &cursor{
		block: newIPNet(block),
		next:  uint64(start),
		limit: end,
	}, nil
}

// allocate produces the next network of the requested prefix length using
// align-and-advance: the pointer is rounded up to the alignment of the
// requested prefix, the resulting network is checked against the block's
// upper bound, and on success the pointer advances to one past its broadcast
// address. A pointer that is not prefix-aligned must never be emitted as a
// network address, hence the explicit rounding.
func (c *cursor) allocate(prefixLen uint8) (*net.IPNet, error) {
	aligned := alignUp(c.next, prefixLen)
	blockSize := uint64(1) << (ipv4Bits - prefixLen)
	broadcast := aligned + blockSize - 1

	if broadcast > uint64(c.limit) {
		return nil, errors.WrapPrefix(ErrAddressSpaceExhausted,
			fmt.Sprintf("cannot fit a /%d into %s (%d addresses remaining)",
				prefixLen, c.block, c.remaining()), 0)
	}

	c.next = broadcast + 1
	return networkAt(uint32(aligned), prefixLen), nil
}

// remaining returns the number of addresses between the pointer and the
// block's upper bound.
func (c *cursor) remaining() uint64 {
	if c.exhausted() {
		return 0
	}
	return uint64(c.limit) - c.next + 1
}

// exhausted tells whether the pointer has moved past the block's last address.
func (c *cursor) exhausted() bool {
	return c.next > uint64(c.limit)
}
