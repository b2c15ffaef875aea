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

package main

import (
	"fmt"
	"os"

	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/spf13/cobra"

	"github.com/ipamtools/subnetplan/plugins/ipam"
	"github.com/ipamtools/subnetplan/plugins/planconf"
	"github.com/ipamtools/subnetplan/plugins/report"
)

var log = logrus.DefaultLogger()

var (
	configFile string
	outputFile string
	format     string
	httpPort   int
	buildings  int
	reserved   int
)

var rootCmd = &cobra.Command{
	Use:   "subnetplan <master-cidr>",
	Short: "Carve a master IPv4 block into an allocation report",
	Long: "subnetplan subdivides a master IPv4 block according to a declarative\n" +
		"allocation plan and writes the resulting report as JSON or CSV.\n" +
		"Without --config the built-in campus plan is used.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := run(cmd, args[0]); err != nil {
			log.Errorf("planning failed: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "YAML file with the allocation plan")
	flags.StringVarP(&outputFile, "output", "o", "subnet_plan.json", "report file to write")
	flags.StringVarP(&format, "format", "f", "json", "report format (json or csv)")
	flags.IntVar(&httpPort, "http-port", 0, "serve the report over HTTP on this port instead of writing a file")
	flags.IntVar(&buildings, "buildings", 0, "number of buildings in the built-in plan")
	flags.IntVar(&reserved, "reserved", 0, "reserved tail length of the built-in plan's tables")
}

func run(cmd *cobra.Command, masterCIDR string) error {
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown report format %q", format)
	}

	planner, err := ipam.NewPlanner(log, masterCIDR)
	if err != nil {
		return err
	}

	plan, err := loadPlan(cmd, planner)
	if err != nil {
		return err
	}

	records, runErr := planner.Run(plan)
	rows := report.BuildRows(planner.MasterBlock(), records)

	if httpPort != 0 {
		server := &report.Server{Log: log, Rows: rows}
		return server.ListenAndServe(httpPort)
	}

	written, err := report.Write(outputFile, format, rows)
	if err != nil {
		return err
	}
	log.Infof("Allocation report written to %s", written)

	// a partially executed plan still produces a report, but the run is
	// reported as failed
	return runErr
}

// loadPlan resolves the plan steps to interpret, either from the config file
// or from the built-in plan sized for the master block.
func loadPlan(cmd *cobra.Command, planner *ipam.Planner) ([]*ipam.PlanStep, error) {
	config := planconf.DefaultConfig()
	if configFile != "" {
		var err error
		if config, err = planconf.LoadConfig(configFile); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("buildings") {
		config.BaseBuildings = buildings
	}
	if cmd.Flags().Changed("reserved") {
		config.ReservedCount = reserved
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if len(config.Plan) > 0 {
		return config.Plan, nil
	}
	return config.DefaultPlan(ipam.PrefixLen(planner.MasterBlock()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
