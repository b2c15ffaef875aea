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

package planconf

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/go-errors/errors"
	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"

	"github.com/ipamtools/subnetplan/plugins/ipam"
)

var logger = logrus.DefaultLogger()

const testPlanYAML = `
base-buildings: 3
reserved-count: 1
plan:
  - kind: aggregate
    name: "Block A"
    prefix: 26
  - kind: header_with_range
    title: "Block A (Servers /28s)"
    section-tag: servers
    aggregate: "Block A"
  - kind: allocation
    target: "Block A"
    purpose: "Servers"
    prefix: 28
    count: 2
    section-tag: servers
  - kind: blank_row
  - kind: carve_remainder
    target: "Block A"
    purpose: "UNUSED"
    prefix: 28
`

func writeTempConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "planconf")
	Expect(err).To(BeNil())

	fileName := filepath.Join(dir, "plan.yaml")
	Expect(ioutil.WriteFile(fileName, []byte(content), 0644)).To(BeNil())
	return fileName
}

func TestLoadConfig(t *testing.T) {
	RegisterTestingT(t)

	config, err := LoadConfig(writeTempConfig(t, testPlanYAML))
	Expect(err).To(BeNil())
	Expect(config.BaseBuildings).To(BeEquivalentTo(3))
	Expect(config.ReservedCount).To(BeEquivalentTo(1))
	Expect(config.Plan).To(HaveLen(5))

	Expect(config.Plan[0].Kind).To(BeEquivalentTo(ipam.StepAggregate))
	Expect(config.Plan[0].Name).To(BeEquivalentTo("Block A"))
	Expect(config.Plan[0].PrefixLen).To(BeEquivalentTo(uint8(26)))

	Expect(config.Plan[2].Kind).To(BeEquivalentTo(ipam.StepAllocation))
	Expect(config.Plan[2].Target).To(BeEquivalentTo("Block A"))
	Expect(config.Plan[2].SectionTag).To(BeEquivalentTo("servers"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	RegisterTestingT(t)

	_, err := LoadConfig("/nonexistent/plan.yaml")
	Expect(err).NotTo(BeNil())
}

func TestValidation(t *testing.T) {
	RegisterTestingT(t)

	badSteps := []*ipam.PlanStep{
		{Kind: "teleport"},
		{Kind: ipam.StepAggregate, PrefixLen: 24},                               // no name
		{Kind: ipam.StepAggregate, Name: "A", PrefixLen: 33},                    // bad prefix
		{Kind: ipam.StepAllocation, Purpose: "X", PrefixLen: 24},                // no count
		{Kind: ipam.StepHeaderWithRange, Title: "T"},                            // no tag
		{Kind: ipam.StepAllocation, PrefixLen: 24, Count: 1, ReservedStyle: "?"}, // bad style
	}

	for _, step := range badSteps {
		config := DefaultConfig()
		config.Plan = []*ipam.PlanStep{step}
		Expect(config.Validate()).NotTo(BeNil())
	}

	config := DefaultConfig()
	config.Plan = []*ipam.PlanStep{
		{Kind: ipam.StepAggregate, Name: "A", PrefixLen: 24},
		{Kind: ipam.StepBlankRow},
	}
	Expect(config.Validate()).To(BeNil())
}

// TestDefaultPlanCanonicalMaster interprets the built-in plan against the
// canonical /17 master block and checks the resulting layout.
func TestDefaultPlanCanonicalMaster(t *testing.T) {
	RegisterTestingT(t)

	config := DefaultConfig()
	plan, err := config.DefaultPlan(17)
	Expect(err).To(BeNil())

	planner, err := ipam.NewPlanner(logger, "10.15.0.0/17")
	Expect(err).To(BeNil())
	records, err := planner.Run(plan)
	Expect(err).To(BeNil())

	// the four-way segmentation
	for name, expected := range map[string]string{
		"Block A": "10.15.0.0/19",
		"Block B": "10.15.32.0/19",
		"Block C": "10.15.64.0/19",
		"Block D": "10.15.96.0/19",
	} {
		block, err := planner.AggregateNetwork(name)
		Expect(err).To(BeNil())
		Expect(block.String()).To(BeEquivalentTo(expected))
	}

	// a well-sized master block produces no ERROR rows
	var data []*ipam.Record
	for _, r := range records {
		Expect(r.Kind).NotTo(BeEquivalentTo(ipam.RecordError))
		if r.Kind == ipam.RecordData {
			data = append(data, r)
		}
	}

	// canonical table prefixes: switch management /24s start Block A
	Expect(data[0].Network.String()).To(BeEquivalentTo("10.15.0.0/24"))
	Expect(data[0].Position).To(BeEquivalentTo("BLDG 1"))
	Expect(data[0].Purpose).To(BeEquivalentTo("Switch Management"))

	// cameras /21s start Block B
	cameras := data[12]
	Expect(cameras.Network.String()).To(BeEquivalentTo("10.15.32.0/21"))
	Expect(cameras.Purpose).To(BeEquivalentTo("Cameras"))

	// PIDS /24s start Block D
	var pidsFirst *ipam.Record
	for _, r := range data {
		if r.Purpose == "PIDS" {
			pidsFirst = r
			break
		}
	}
	Expect(pidsFirst).NotTo(BeNil())
	Expect(pidsFirst.Network.String()).To(BeEquivalentTo("10.15.96.0/24"))

	// the servers table substitutes its reserved-tail purpose
	reservedServers := 0
	for _, r := range data {
		if r.Purpose == "Reserved" {
			reservedServers++
		}
	}
	Expect(reservedServers).To(BeEquivalentTo(DefaultConfig().ReservedCount))
}

func TestDefaultPlanMasterTooSmall(t *testing.T) {
	RegisterTestingT(t)

	_, err := DefaultConfig().DefaultPlan(26)
	Expect(err).NotTo(BeNil())
	Expect(errors.Is(err, ipam.ErrMasterTooSmall)).To(BeTrue())
}
