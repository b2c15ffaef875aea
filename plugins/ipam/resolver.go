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
)

// rangeNotDetermined is displayed on a range header with no matching rows and
// no aggregate to fall back to.
const rangeNotDetermined = "Range Not Determined"

// resolveHeaderRanges back-fills the displayed range of every
// header-with-range record and strips the internal section tags. This runs as
// a separate pass after interpretation because a header's final range is not
// known until all of its child rows exist.
//
// For each such header, records are scanned strictly forward until the next
// blank or header row; rows whose section tag matches the header's tag
// contribute their endpoints, and the header's range becomes first
// contributor's start to last contributor's end. A header with no
// contributors falls back to the full span of its associated aggregate.
func resolveHeaderRanges(records []*Record, aggregates *registry) {
	for idx, header := range records {
		if header.Kind != RecordHeader || !header.wantRange {
			continue
		}
		header.Range = sectionRange(records[idx+1:], header, aggregates)
	}

	// the tags are a resolution detail, not part of the record shape
	for _, r := range records {
		r.sectionTag = ""
	}
}

// sectionRange computes the displayed range of one header from the records
// that follow it.
func sectionRange(tail []*Record, header *Record, aggregates *registry) string {
	var first, last *Record
	for _, r := range tail {
		if r.Kind == RecordBlank || r.Kind == RecordHeader {
			break
		}
		if r.Kind != RecordData || r.sectionTag != header.sectionTag {
			continue
		}
		if first == nil {
			first = r
		}
		last = r
	}

	if first != nil {
		return fmt.Sprintf("%s - %s", first.rangeFirst, last.rangeLast)
	}

	if header.aggregate != "" {
		if agg, err := aggregates.lookup(header.aggregate); err == nil {
			return fmt.Sprintf("%s - %s",
				NetworkAddress(agg.network), BroadcastAddress(agg.network))
		}
	}
	return rangeNotDetermined
}
