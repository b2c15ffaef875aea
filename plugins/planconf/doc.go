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

// Package planconf loads and validates the allocation plan configuration.
//
// A plan file is a YAML document listing the typed steps to interpret:
//
//	base-buildings: 10
//	reserved-count: 2
//	plan:
//	  - kind: aggregate
//	    name: "Block A"
//	    prefix: 19
//	  - kind: header_with_range
//	    title: "Block A (Switch Management /24s)"
//	    section-tag: switch-mgmt
//	    aggregate: "Block A"
//	  - kind: allocation
//	    target: "Block A"
//	    purpose: "Switch Management"
//	    prefix: 24
//	    count: 12
//	    base-count: 10
//	    building-specific: true
//	    section-tag: switch-mgmt
//
// Without a plan file, the built-in campus plan is generated for the master
// block at hand (see Config.DefaultPlan).
package planconf
