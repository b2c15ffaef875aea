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

	"github.com/go-errors/errors"
)

// StepKind discriminates the variants of a plan step.
type StepKind string

const (
	// StepAllocation carves <count> consecutive networks of a fixed prefix
	// length from the target cursor.
	StepAllocation StepKind = "allocation"

	// StepAggregate reserves one network from the master cursor and registers
	// it under a symbolic name for phase-2 steps to carve from.
	StepAggregate StepKind = "aggregate"

	// StepCarveRemainder carves fixed-prefix networks from the target cursor
	// until the owning block is exhausted.
	StepCarveRemainder StepKind = "carve_remainder"

	// StepHeader emits a section header row without a resolved range.
	StepHeader StepKind = "header"

	// StepHeaderWithRange emits a section header row whose displayed range is
	// back-filled from the data rows that follow it.
	StepHeaderWithRange StepKind = "header_with_range"

	// StepBlankRow emits a pure separator row.
	StepBlankRow StepKind = "blank_row"
)

// ReservedStyle selects how the purpose label of a reserved-tail allocation
// is derived. The two styles match the two allocation tables observed in
// deployed plans; the asymmetry is intentional and configurable per step.
type ReservedStyle string

const (
	// ReservedSuffix appends " (Reserved)" to the step purpose.
	ReservedSuffix ReservedStyle = "suffix"

	// ReservedReplace substitutes the purpose with the literal "Reserved".
	ReservedReplace ReservedStyle = "replace"
)

// PlanStep is one entry of the allocation plan. Kind selects the variant;
// the remaining fields are payload and only a subset is meaningful for each
// kind (see the field comments).
type PlanStep struct {
	// Kind of the step, one of the Step* constants.
	Kind StepKind `json:"kind"`

	// Name registers the reserved network of an aggregate step.
	Name string `json:"name,omitempty"`

	// Target names the aggregate to carve from; empty targets the master
	// block. Used by allocation and carve_remainder steps.
	Target string `json:"target,omitempty"`

	// Purpose labels the emitted rows (allocation, carve_remainder).
	Purpose string `json:"purpose,omitempty"`

	// PrefixLen is the prefix length of every network carved by this step
	// (allocation, carve_remainder) or of the reserved network (aggregate).
	PrefixLen uint8 `json:"prefix,omitempty"`

	// Count of networks to carve (allocation only).
	Count int `json:"count,omitempty"`

	// BaseCount splits an allocation into a base range and a reserved tail.
	// Iterations at index >= BaseCount are labelled as reserved. Zero or
	// negative disables the reserved tail.
	BaseCount int `json:"base-count,omitempty"`

	// BuildingSpecific assigns sequential "BLDG <n>" position labels to the
	// base range of an allocation step.
	BuildingSpecific bool `json:"building-specific,omitempty"`

	// ReservedStyle selects the reserved-tail purpose label derivation.
	// Empty defaults to ReservedSuffix.
	ReservedStyle ReservedStyle `json:"reserved-style,omitempty"`

	// Title of a header step.
	Title string `json:"title,omitempty"`

	// Aggregate optionally names the aggregate whose full span serves as the
	// fallback range of a header_with_range step with no matching data rows.
	Aggregate string `json:"aggregate,omitempty"`

	// SectionTag links a header_with_range step with the allocation and
	// carve_remainder rows it summarizes.
	SectionTag string `json:"section-tag,omitempty"`
}

// RecordKind discriminates the rows of the allocation report.
type RecordKind int

const (
	// RecordData is a successfully carved network.
	RecordData RecordKind = iota

	// RecordHeader introduces a named section.
	RecordHeader

	// RecordBlank is a separator row.
	RecordBlank

	// RecordError marks a step that ran out of address space.
	RecordError
)

// Record is one row of the final allocation report. Data records are created
// once per successful carve and never mutated afterwards; only the Range field
// of header records is filled in by the header-range resolution pass.
type Record struct {
	// Kind of the row.
	Kind RecordKind

	// Position is the building/position label ("BLDG 3", "Reserved", or empty).
	Position string

	// Purpose is the equipment/purpose label. For header records it carries
	// the section title, for error records the diagnostic text.
	Purpose string

	// Network is the carved network; nil for structural rows.
	Network *net.IPNet

	// Range is the human-readable address range. For data records it is the
	// usable range of Network; for resolved headers the span of the section.
	Range string

	// rangeFirst/rangeLast are the endpoints behind Range, kept for the
	// header-range resolution pass.
	rangeFirst net.IP
	rangeLast  net.IP

	// sectionTag links the record to its owning header until resolution;
	// cleared before the record sequence is handed over for emission.
	sectionTag string

	// wantRange marks a header whose Range must be back-filled.
	wantRange bool

	// aggregate names the fallback aggregate of a range header.
	aggregate string
}

// Error values returned by the allocation core. Callers are expected to test
// with errors.Is so that wrapped variants with extra context still match.
var (
	// ErrInvalidNetworkFormat is returned for malformed CIDR text.
	ErrInvalidNetworkFormat = errors.New("invalid network format")

	// ErrAddressSpaceExhausted is returned when a single carve does not fit
	// into its target block.
	ErrAddressSpaceExhausted = errors.New("address space exhausted")

	// ErrUnknownAggregate is returned when a step references a name that was
	// never registered in phase 1.
	ErrUnknownAggregate = errors.New("unknown aggregate")

	// ErrMasterTooSmall is returned when the first structural split of the
	// master block cannot be satisfied.
	ErrMasterTooSmall = errors.New("master block too small")

	// ErrDuplicateAggregate is returned when a plan registers the same
	// aggregate name twice.
	ErrDuplicateAggregate = errors.New("duplicate aggregate")
)
