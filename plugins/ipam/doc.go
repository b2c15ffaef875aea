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

// Package ipam partitions one master IPv4 block into a structured,
// non-overlapping set of subnets according to a declarative two-phase
// allocation plan.
//
// Phase 1 reserves named aggregate blocks from the master block; phase 2
// carves the visible allocations, each from either the master cursor or the
// private cursor of one named aggregate. Every cursor advances with
// align-and-advance semantics: the next-free pointer is rounded up to the
// alignment of the requested prefix length before a network is emitted, so a
// misaligned pointer never produces a misaligned block.
//
// Example:
//
//	planner, _ := ipam.NewPlanner(logger, "10.0.0.0/24")
//	records, _ := planner.Run([]*ipam.PlanStep{
//		{Kind: ipam.StepAggregate, Name: "AGG", PrefixLen: 26},
//		{Kind: ipam.StepAllocation, Target: "AGG", Purpose: "Servers",
//			PrefixLen: 28, Count: 2},
//	})
//
//	// AGG reserved as 10.0.0.0/26
//	// record 1: Servers 10.0.0.0/28
//	// record 2: Servers 10.0.0.16/28
//
// The run is single-threaded and fully deterministic; repeated runs over the
// same inputs produce byte-identical record sequences.
package ipam
