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
	"fmt"

	"github.com/go-errors/errors"

	"github.com/ipamtools/subnetplan/plugins/ipam"
)

// maxMasterPrefixLen is the narrowest master block the built-in plan can
// subdivide; the deepest table prefix sits 10 bits below it.
const maxMasterPrefixLen = 22

// DefaultPlan generates the built-in campus allocation plan for a master
// block of the given prefix length. The master block is segmented into four
// aggregates (Block A-D) two bits below it; the table prefixes scale with the
// segmentation so that a /17 master yields the canonical /24, /21 and /27
// tables.
func (c *Config) DefaultPlan(masterPrefixLen uint8) ([]*ipam.PlanStep, error) {
	if masterPrefixLen > maxMasterPrefixLen {
		return nil, errors.WrapPrefix(ipam.ErrMasterTooSmall,
			fmt.Sprintf("the built-in plan needs a /%d or larger master block",
				maxMasterPrefixLen), 0)
	}

	blockPrefix := masterPrefixLen + 2
	allocCount := c.BaseBuildings + c.ReservedCount

	return []*ipam.PlanStep{
		// phase 1: four-way segmentation of the master block
		{Kind: ipam.StepAggregate, Name: "Block A", PrefixLen: blockPrefix},
		{Kind: ipam.StepAggregate, Name: "Block B", PrefixLen: blockPrefix},
		{Kind: ipam.StepAggregate, Name: "Block C", PrefixLen: blockPrefix},
		{Kind: ipam.StepAggregate, Name: "Block D", PrefixLen: blockPrefix},

		// TABLE 1: switch management, one subnet per building
		{Kind: ipam.StepHeaderWithRange,
			Title:      fmt.Sprintf("Block A (Switch Management /%ds)", blockPrefix+5),
			SectionTag: "switch-mgmt", Aggregate: "Block A"},
		{Kind: ipam.StepAllocation, Target: "Block A", Purpose: "Switch Management",
			PrefixLen: blockPrefix + 5, Count: allocCount, BaseCount: c.BaseBuildings,
			BuildingSpecific: true, SectionTag: "switch-mgmt"},
		{Kind: ipam.StepBlankRow},

		// TABLE 2: cameras, large shared subnets
		{Kind: ipam.StepHeaderWithRange,
			Title:      fmt.Sprintf("Block B (Cameras /%ds)", blockPrefix+2),
			SectionTag: "cameras", Aggregate: "Block B"},
		{Kind: ipam.StepAllocation, Target: "Block B", Purpose: "Cameras",
			PrefixLen: blockPrefix + 2, Count: 3, BaseCount: 2,
			SectionTag: "cameras"},
		{Kind: ipam.StepCarveRemainder, Target: "Block B",
			Purpose: "UNUSED (Camera Blocks Remainder)", PrefixLen: blockPrefix + 2,
			SectionTag: "cameras"},
		{Kind: ipam.StepBlankRow},

		// TABLE 3: expansion space, kept visible as uniform unused carves
		{Kind: ipam.StepHeaderWithRange, Title: "Block C (Expansion)",
			SectionTag: "expansion", Aggregate: "Block C"},
		{Kind: ipam.StepCarveRemainder, Target: "Block C",
			Purpose: "UNUSED (Expansion)", PrefixLen: blockPrefix + 3,
			SectionTag: "expansion"},
		{Kind: ipam.StepBlankRow},

		// TABLE 4: PIDS, one subnet per building
		{Kind: ipam.StepHeaderWithRange,
			Title:      fmt.Sprintf("Block D (PIDS /%ds)", blockPrefix+5),
			SectionTag: "pids", Aggregate: "Block D"},
		{Kind: ipam.StepAllocation, Target: "Block D", Purpose: "PIDS",
			PrefixLen: blockPrefix + 5, Count: allocCount, BaseCount: c.BaseBuildings,
			BuildingSpecific: true, SectionTag: "pids"},
		{Kind: ipam.StepBlankRow},

		// TABLE 5: intercoms
		{Kind: ipam.StepHeaderWithRange,
			Title:      fmt.Sprintf("Block D (Intercoms /%ds)", blockPrefix+8),
			SectionTag: "intercoms", Aggregate: "Block D"},
		{Kind: ipam.StepAllocation, Target: "Block D", Purpose: "Intercoms",
			PrefixLen: blockPrefix + 8, Count: allocCount, BaseCount: c.BaseBuildings,
			BuildingSpecific: true, SectionTag: "intercoms"},
		{Kind: ipam.StepBlankRow},

		// TABLE 6: servers; this table historically substitutes the purpose
		// of its reserved tail instead of suffixing it
		{Kind: ipam.StepHeaderWithRange,
			Title:      fmt.Sprintf("Block D (Servers /%ds)", blockPrefix+8),
			SectionTag: "servers", Aggregate: "Block D"},
		{Kind: ipam.StepAllocation, Target: "Block D", Purpose: "Servers",
			PrefixLen: blockPrefix + 8, Count: allocCount, BaseCount: c.BaseBuildings,
			ReservedStyle: ipam.ReservedReplace, SectionTag: "servers"},
		{Kind: ipam.StepBlankRow},

		// TABLE 7: unused Block D remainder
		{Kind: ipam.StepHeaderWithRange, Title: "Block D (UNUSED / RESERVED SPACE)",
			SectionTag: "unused-d", Aggregate: "Block D"},
		{Kind: ipam.StepCarveRemainder, Target: "Block D",
			Purpose: "UNUSED (Block D Remainder)", PrefixLen: blockPrefix + 5,
			SectionTag: "unused-d"},
	}, nil
}
