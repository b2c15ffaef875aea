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
	"github.com/ligato/cn-infra/logging"
)

// Planner interprets an ordered allocation plan against one master IPv4
// block. The walk is two-phased: phase 1 executes the aggregate steps
// top-to-bottom against the master cursor and populates the aggregate
// registry; phase 2 executes the remaining steps top-to-bottom, each
// advancing either the master cursor or the private cursor of one named
// aggregate. The computation is single-threaded and deterministic: the same
// master block and plan always produce an identical record sequence.
type Planner struct {
	Log logging.Logger

	master       *net.IPNet
	masterCursor *cursor
	aggregates   *registry
}

// NewPlanner parses the master CIDR and prepares an empty planner for it.
func NewPlanner(log logging.Logger, masterCIDR string) (*Planner, error) {
	master, err := ParseNetwork(masterCIDR)
	if err != nil {
		return nil, err
	}
	masterCursor, err := newCursor(master)
	if err != nil {
		return nil, err
	}
	return &Planner{
		Log:          log,
		master:       master,
		masterCursor: masterCursor,
		aggregates:   newRegistry(),
	}, nil
}

// MasterBlock returns the master network the planner was created for.
func (p *Planner) MasterBlock() *net.IPNet {
	return newIPNet(p.master)
}

// AggregateNetwork returns the network reserved under the given name in
// phase 1.
func (p *Planner) AggregateNetwork(name string) (*net.IPNet, error) {
	agg, err := p.aggregates.lookup(name)
	if err != nil {
		return nil, err
	}
	return newIPNet(agg.network), nil
}

// Run executes the plan and returns the finished record sequence with all
// header ranges resolved and section tags stripped.
//
// Capacity problems of individual steps are degraded to visible ERROR rows
// and do not stop the run; the returned error is non-nil only for conditions
// that make the report itself unreliable (malformed plan, unknown aggregate
// references, master block too small for the structural split).
func (p *Planner) Run(plan []*PlanStep) ([]*Record, error) {
	var records []*Record
	var stepErr, firstErr error

	// phase 1: reserve the aggregates from the master block
	for _, step := range plan {
		if step.Kind != StepAggregate {
			continue
		}
		if err := p.runAggregate(step); err != nil {
			return nil, err
		}
	}

	// phase 2: carve the visible rows
	for _, step := range plan {
		switch step.Kind {
		case StepAggregate:
			// already processed, never a visible row

		case StepBlankRow:
			records = append(records, &Record{Kind: RecordBlank})

		case StepHeader, StepHeaderWithRange:
			records = append(records, &Record{
				Kind:       RecordHeader,
				Purpose:    step.Title,
				wantRange:  step.Kind == StepHeaderWithRange,
				sectionTag: step.SectionTag,
				aggregate:  step.Aggregate,
			})

		case StepAllocation:
			records, stepErr = p.runAllocation(step, records)

		case StepCarveRemainder:
			records, stepErr = p.runCarveRemainder(step, records)

		default:
			return nil, errors.Errorf("unknown plan step kind %q", step.Kind)
		}

		if stepErr != nil {
			if !errors.Is(stepErr, ErrUnknownAggregate) {
				return nil, stepErr
			}
			// the step was skipped; keep going but surface the failure
			p.Log.Errorf("skipping step %q: %v", step.Purpose, stepErr)
			if firstErr == nil {
				firstErr = stepErr
			}
			stepErr = nil
		}
	}

	resolveHeaderRanges(records, p.aggregates)

	p.Log.Debugf("plan interpreted: master=%v, records=%d", p.master, len(records))

	return records, firstErr
}

// runAggregate reserves one aggregate network from the master cursor and
// registers it. Aggregate carving always starts at the reserved network's own
// address, never at the master's current pointer.
func (p *Planner) runAggregate(step *PlanStep) error {
	if step.PrefixLen <= PrefixLen(p.master) {
		return errors.WrapPrefix(ErrMasterTooSmall,
			fmt.Sprintf("aggregate %q prefix /%d does not subdivide master %v",
				step.Name, step.PrefixLen, p.master), 0)
	}
	network, err := p.masterCursor.allocate(step.PrefixLen)
	if err != nil {
		if errors.Is(err, ErrAddressSpaceExhausted) {
			return errors.WrapPrefix(ErrMasterTooSmall,
				fmt.Sprintf("aggregate %q does not fit", step.Name), 0)
		}
		return err
	}
	if _, err := p.aggregates.register(step.Name, network); err != nil {
		return err
	}
	p.Log.Debugf("reserved aggregate %q = %v", step.Name, network)
	return nil
}

// runAllocation carves step.Count networks from the target cursor. Exhaustion
// mid-loop appends a single ERROR row naming the unmet purpose and stops this
// step only.
func (p *Planner) runAllocation(step *PlanStep, records []*Record) ([]*Record, error) {
	cur, err := p.targetCursor(step)
	if err != nil {
		return records, err
	}

	for i := 0; i < step.Count; i++ {
		network, err := cur.allocate(step.PrefixLen)
		if err != nil {
			records = append(records, p.errorRecord(step, cur))
			break
		}
		records = append(records, dataRecord(network,
			positionLabel(step, i), purposeLabel(step, i), step.SectionTag))
	}
	return records, nil
}

// runCarveRemainder carves fixed-prefix networks from the target cursor until
// the owning block is exhausted. Exhaustion here is the expected loop
// terminator, not an error.
func (p *Planner) runCarveRemainder(step *PlanStep, records []*Record) ([]*Record, error) {
	cur, err := p.targetCursor(step)
	if err != nil {
		return records, err
	}

	for {
		network, err := cur.allocate(step.PrefixLen)
		if err != nil {
			break
		}
		records = append(records, dataRecord(network, "", step.Purpose, step.SectionTag))
	}
	return records, nil
}

// targetCursor resolves the cursor a step operates on: the master cursor for
// an empty target, otherwise the private cursor of the named aggregate.
func (p *Planner) targetCursor(step *PlanStep) (*cursor, error) {
	if step.Target == "" {
		return p.masterCursor, nil
	}
	agg, err := p.aggregates.lookup(step.Target)
	if err != nil {
		return nil, err
	}
	return agg.cursor, nil
}

// errorRecord builds the diagnostic row for a step that ran out of space,
// including the capacity left at the point of failure.
func (p *Planner) errorRecord(step *PlanStep, cur *cursor) *Record {
	text := fmt.Sprintf("ERROR: No space left for %s (%d addresses remaining)",
		step.Purpose, cur.remaining())
	p.Log.Warn(text)
	return &Record{
		Kind:       RecordError,
		Purpose:    text,
		sectionTag: step.SectionTag,
	}
}

// dataRecord builds the row for one successfully carved network.
func dataRecord(network *net.IPNet, position, purpose, sectionTag string) *Record {
	rangeStr, first, last := UsableRange(network)
	return &Record{
		Kind:       RecordData,
		Position:   position,
		Purpose:    purpose,
		Network:    network,
		Range:      rangeStr,
		rangeFirst: first,
		rangeLast:  last,
		sectionTag: sectionTag,
	}
}

// positionLabel derives the building/position label of the i-th iteration of
// an allocation step. Buildings are numbered in iteration order starting at 1.
func positionLabel(step *PlanStep, i int) string {
	if !step.BuildingSpecific {
		return ""
	}
	if reservedTail(step, i) {
		return "Reserved"
	}
	return fmt.Sprintf("BLDG %d", i+1)
}

// purposeLabel derives the purpose label of the i-th iteration of an
// allocation step, applying the step's reserved-tail style.
func purposeLabel(step *PlanStep, i int) string {
	if !reservedTail(step, i) {
		return step.Purpose
	}
	if step.ReservedStyle == ReservedReplace {
		return "Reserved"
	}
	return step.Purpose + " (Reserved)"
}

// reservedTail tells whether the i-th iteration falls into the reserved tail
// of an allocation step.
func reservedTail(step *PlanStep, i int) bool {
	return step.BaseCount > 0 && i >= step.BaseCount
}
