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

// aggregate is one phase-1 reservation: a top-level network carved from the
// master block, addressed by a symbolic name, with its own carving cursor
// anchored at the network's own address.
type aggregate struct {
	name    string
	network *net.IPNet
	cursor  *cursor
}

// registry maps symbolic block names to their reservations. Entries are
// written once during phase 1 and only their cursors mutate afterwards.
type registry struct {
	byName map[string]*aggregate
}

func newRegistry() *registry {
	return &registry{
		byName: map[string]*aggregate{},
	}
}

// register adds a reservation under the given name. Re-registering a name is
// a malformed-plan condition and fails fast.
func (r *registry) register(name string, network *net.IPNet) (*aggregate, error) {
	if _, exists := r.byName[name]; exists {
		return nil, errors.WrapPrefix(ErrDuplicateAggregate, name, 0)
	}
	cur, err := newCursor(network)
	if err != nil {
		return nil, err
	}
	agg := &aggregate{
		name:    name,
		network: newIPNet(network),
		cursor:  cur,
	}
	r.byName[name] = agg
	return agg, nil
}

// lookup returns the reservation registered under the given name.
func (r *registry) lookup(name string) (*aggregate, error) {
	agg, found := r.byName[name]
	if !found {
		return nil, errors.WrapPrefix(ErrUnknownAggregate, name, 0)
	}
	return agg, nil
}
