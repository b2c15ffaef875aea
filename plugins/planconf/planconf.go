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

	"github.com/ghodss/yaml"
	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"

	"github.com/ipamtools/subnetplan/plugins/ipam"
)

const (
	// defaultBaseBuildings is the number of buildings every per-building
	// allocation table covers by default.
	defaultBaseBuildings = 10

	// defaultReservedCount is the number of spare allocations appended to
	// every allocation table by default.
	defaultReservedCount = 2
)

// Config groups the configurable parameters of a planning run. The plan can
// be declared in a YAML file; with no file the built-in plan (see
// DefaultPlan) is used.
type Config struct {
	// BaseBuildings sets the base-count of the built-in plan's allocation
	// tables.
	BaseBuildings int `json:"base-buildings"`

	// ReservedCount sets the reserved tail length of the built-in plan's
	// allocation tables.
	ReservedCount int `json:"reserved-count"`

	// Plan is the ordered list of allocation steps. Empty means the built-in
	// plan is generated for the master block at hand.
	Plan []*ipam.PlanStep `json:"plan,omitempty"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		BaseBuildings: defaultBaseBuildings,
		ReservedCount: defaultReservedCount,
	}
}

// LoadConfig reads and parses a YAML config file on top of the defaults.
func LoadConfig(fileName string) (*Config, error) {
	yamlFile, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", fileName)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", fileName)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the plan steps for structural errors that would otherwise
// surface only midway through a run.
func (c *Config) Validate() error {
	if c.BaseBuildings < 0 || c.ReservedCount < 0 {
		return goerrors.Errorf("building counts must not be negative")
	}

	for idx, step := range c.Plan {
		if err := validateStep(step); err != nil {
			return goerrors.Errorf("plan step %d: %v", idx, err)
		}
	}
	return nil
}

func validateStep(step *ipam.PlanStep) error {
	switch step.Kind {
	case ipam.StepBlankRow:
		return nil

	case ipam.StepHeader:
		return nil

	case ipam.StepHeaderWithRange:
		if step.SectionTag == "" {
			return goerrors.Errorf("header_with_range requires a section-tag")
		}
		return nil

	case ipam.StepAggregate:
		if step.Name == "" {
			return goerrors.Errorf("aggregate requires a name")
		}
		return validatePrefix(step.PrefixLen)

	case ipam.StepAllocation:
		if step.Count <= 0 {
			return goerrors.Errorf("allocation requires a positive count")
		}
		if err := validateReservedStyle(step.ReservedStyle); err != nil {
			return err
		}
		return validatePrefix(step.PrefixLen)

	case ipam.StepCarveRemainder:
		if err := validateReservedStyle(step.ReservedStyle); err != nil {
			return err
		}
		return validatePrefix(step.PrefixLen)

	default:
		return goerrors.Errorf("unknown step kind %q", step.Kind)
	}
}

func validatePrefix(prefixLen uint8) error {
	if prefixLen < 1 || prefixLen > 32 {
		return goerrors.Errorf("prefix length /%d is out of the IPv4 range", prefixLen)
	}
	return nil
}

func validateReservedStyle(style ipam.ReservedStyle) error {
	switch style {
	case "", ipam.ReservedSuffix, ipam.ReservedReplace:
		return nil
	}
	return goerrors.Errorf("unknown reserved-style %q", style)
}
