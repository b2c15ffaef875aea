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

	"github.com/apparentlymart/go-cidr/cidr"
	"github.com/go-errors/errors"
)

// ipv4Bits is the address length this planner operates on. IPv6 master blocks
// are rejected at parse time.
const ipv4Bits = 32

// ParseNetwork parses dotted-quad/prefix text into an IPv4 network.
// The returned network is normalized to its true network address.
func ParseNetwork(cidrStr string) (*net.IPNet, error) {
	_, network, err := net.ParseCIDR(cidrStr)
	if err != nil {
		return nil, errors.WrapPrefix(ErrInvalidNetworkFormat,
			fmt.Sprintf("%q", cidrStr), 0)
	}
	if network.IP.To4() == nil {
		return nil, errors.WrapPrefix(ErrInvalidNetworkFormat,
			fmt.Sprintf("%q is not an IPv4 network", cidrStr), 0)
	}
	network.IP = network.IP.To4()
	return network, nil
}

// NetworkAddress returns the first address of the given network.
func NetworkAddress(network *net.IPNet) net.IP {
	first, _ := cidr.AddressRange(network)
	return first.To4()
}

// BroadcastAddress returns the last address of the given network.
func BroadcastAddress(network *net.IPNet) net.IP {
	_, last := cidr.AddressRange(network)
	return last.To4()
}

// Netmask returns the dotted-quad netmask of the given network.
func Netmask(network *net.IPNet) string {
	mask := network.Mask
	return net.IPv4(mask[0], mask[1], mask[2], mask[3]).To4().String()
}

// PrefixLen returns the prefix length of the given network.
func PrefixLen(network *net.IPNet) uint8 {
	ones, _ := network.Mask.Size()
	return uint8(ones)
}

// UsableHostCount returns the number of assignable host addresses in the
// given network. Point-to-point (/31) and host (/32) networks have no
// reserved network/broadcast addresses, so the full address count applies.
func UsableHostCount(network *net.IPNet) uint64 {
	total := cidr.AddressCount(network)
	if PrefixLen(network) >= 31 {
		return total
	}
	return total - 2
}

// Contains tells whether the inner network lies fully within the outer one.
func Contains(outer, inner *net.IPNet) bool {
	return outer.Contains(NetworkAddress(inner)) &&
		outer.Contains(BroadcastAddress(inner))
}

// Overlaps tells whether the two networks share at least one address.
func Overlaps(a, b *net.IPNet) bool {
	return a.Contains(b.IP) || b.Contains(a.IP)
}

// UsableRange renders the human-readable address range of a network together
// with its endpoints. For /31 and /32 the endpoints are the full
// network-to-broadcast span, as there are no reserved addresses to skip.
func UsableRange(network *net.IPNet) (rangeStr string, first, last net.IP) {
	first = NetworkAddress(network)
	last = BroadcastAddress(network)
	if PrefixLen(network) < 31 {
		first = cidr.Inc(first)
		last = cidr.Dec(last)
	}
	return fmt.Sprintf("%s - %s", first, last), first, last
}

// isAligned tells whether ip is the true network address for the given
// prefix length.
func isAligned(ip net.IP, prefixLen uint8) bool {
	addr, err := ipv4ToUint32(ip)
	if err != nil {
		return false
	}
	blockSize := uint64(1) << (ipv4Bits - prefixLen)
	return uint64(addr)%blockSize == 0
}

// alignUp rounds addr up to the nearest multiple of the block size implied by
// prefixLen. Already-aligned addresses are returned as-is. The result is
// returned as uint64 so that rounding past 255.255.255.255 is representable
// and detectable by the caller.
func alignUp(addr uint64, prefixLen uint8) uint64 {
	blockSize := uint64(1) << (ipv4Bits - prefixLen)
	if addr%blockSize == 0 {
		return addr
	}
	return (addr/blockSize + 1) * blockSize
}

// networkAt builds the network of the given prefix length whose network
// address is addr. addr must be aligned to prefixLen.
func networkAt(addr uint32, prefixLen uint8) *net.IPNet {
	return &net.IPNet{
		IP:   uint32ToIPv4(addr),
		Mask: net.CIDRMask(int(prefixLen), ipv4Bits),
	}
}
