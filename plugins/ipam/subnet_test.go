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
	"net"
	"testing"

	"github.com/go-errors/errors"
	. "github.com/onsi/gomega"
)

func network(networkCIDR string) *net.IPNet {
	_, result, err := net.ParseCIDR(networkCIDR)
	if err != nil {
		return &net.IPNet{} // dummy network that will fail any test
	}
	result.IP = result.IP.To4()
	return result
}

func TestParseNetwork(t *testing.T) {
	RegisterTestingT(t)

	parsed, err := ParseNetwork("10.15.0.0/17")
	Expect(err).To(BeNil())
	Expect(parsed.String()).To(BeEquivalentTo("10.15.0.0/17"))

	// host bits set: normalized to the true network address
	parsed, err = ParseNetwork("10.15.3.7/17")
	Expect(err).To(BeNil())
	Expect(parsed.String()).To(BeEquivalentTo("10.15.0.0/17"))

	_, err = ParseNetwork("1.2.3./19")
	Expect(err).NotTo(BeNil())
	Expect(errors.Is(err, ErrInvalidNetworkFormat)).To(BeTrue())

	_, err = ParseNetwork("not-a-network")
	Expect(errors.Is(err, ErrInvalidNetworkFormat)).To(BeTrue())

	_, err = ParseNetwork("fe80::/64")
	Expect(errors.Is(err, ErrInvalidNetworkFormat)).To(BeTrue())
}

func TestNetworkEndpoints(t *testing.T) {
	RegisterTestingT(t)

	n := network("10.0.1.0/24")
	Expect(NetworkAddress(n).String()).To(BeEquivalentTo("10.0.1.0"))
	Expect(BroadcastAddress(n).String()).To(BeEquivalentTo("10.0.1.255"))
	Expect(Netmask(n)).To(BeEquivalentTo("255.255.255.0"))
	Expect(PrefixLen(n)).To(BeEquivalentTo(uint8(24)))
}

func TestUsableHostCount(t *testing.T) {
	RegisterTestingT(t)

	Expect(UsableHostCount(network("10.0.1.0/24"))).To(BeEquivalentTo(uint64(254)))
	Expect(UsableHostCount(network("10.0.0.0/17"))).To(BeEquivalentTo(uint64(32766)))

	// /31 and /32 have no reserved network/broadcast addresses
	Expect(UsableHostCount(network("10.0.1.0/31"))).To(BeEquivalentTo(uint64(2)))
	Expect(UsableHostCount(network("10.0.1.0/32"))).To(BeEquivalentTo(uint64(1)))
}

func TestUsableRange(t *testing.T) {
	RegisterTestingT(t)

	rangeStr, first, last := UsableRange(network("10.0.1.0/24"))
	Expect(rangeStr).To(BeEquivalentTo("10.0.1.1 - 10.0.1.254"))
	Expect(first.String()).To(BeEquivalentTo("10.0.1.1"))
	Expect(last.String()).To(BeEquivalentTo("10.0.1.254"))

	rangeStr, _, _ = UsableRange(network("10.0.1.4/31"))
	Expect(rangeStr).To(BeEquivalentTo("10.0.1.4 - 10.0.1.5"))

	rangeStr, _, _ = UsableRange(network("10.0.1.4/32"))
	Expect(rangeStr).To(BeEquivalentTo("10.0.1.4 - 10.0.1.4"))
}

func TestContainsAndOverlaps(t *testing.T) {
	RegisterTestingT(t)

	master := network("10.0.0.0/16")
	Expect(Contains(master, network("10.0.42.0/24"))).To(BeTrue())
	Expect(Contains(master, network("10.1.0.0/24"))).To(BeFalse())
	// larger than the outer network
	Expect(Contains(master, network("10.0.0.0/8"))).To(BeFalse())

	Expect(Overlaps(network("10.0.0.0/24"), network("10.0.0.128/25"))).To(BeTrue())
	Expect(Overlaps(network("10.0.0.0/24"), network("10.0.1.0/24"))).To(BeFalse())
}

func TestAlignment(t *testing.T) {
	RegisterTestingT(t)

	Expect(isAligned(net.ParseIP("10.0.1.0").To4(), 24)).To(BeTrue())
	Expect(isAligned(net.ParseIP("10.0.1.128").To4(), 24)).To(BeFalse())
	Expect(isAligned(net.ParseIP("10.0.1.128").To4(), 25)).To(BeTrue())

	// round up to the next /24 boundary; aligned input stays put
	Expect(alignUp(addr("10.0.0.5"), 24)).To(BeEquivalentTo(addr("10.0.1.0")))
	Expect(alignUp(addr("10.0.1.0"), 24)).To(BeEquivalentTo(addr("10.0.1.0")))

	// rounding past the top of the address space must not wrap
	Expect(alignUp(addr("255.255.255.1"), 24)).To(BeEquivalentTo(uint64(1) << 32))
}

func addr(ip string) uint64 {
	v, err := ipv4ToUint32(net.ParseIP(ip))
	if err != nil {
		return 0
	}
	return uint64(v)
}
