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

package report

import (
	"encoding/csv"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unrolled/render"

	"github.com/ipamtools/subnetplan/plugins/ipam"
)

// Row kinds as rendered into the report.
const (
	KindData   = "data"
	KindHeader = "header"
	KindBlank  = "blank"
	KindError  = "error"
)

// Row is one rendered line of the allocation report. All values are
// pre-formatted strings so that structural rows stay blank instead of showing
// zero values.
type Row struct {
	Kind     string `json:"kind"`
	Position string `json:"position,omitempty"`
	Purpose  string `json:"purpose,omitempty"`
	Network  string `json:"network,omitempty"`
	Range    string `json:"range,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Mask     string `json:"mask,omitempty"`
	Hosts    string `json:"hosts,omitempty"`
}

// csvHeader is the single column-header line of the tabular serialization.
var csvHeader = []string{
	"Position", "Assigned Equipment", "Network", "Assigned IP Range",
	"Prefix", "Subnet Mask", "Usable Hosts",
}

// BuildRows renders the finished record sequence into report rows, prefixed
// with the master-plan summary rows.
func BuildRows(master *net.IPNet, records []*ipam.Record) []Row {
	masterRange, _, _ := ipam.UsableRange(master)
	rows := []Row{
		{
			Kind:    KindHeader,
			Purpose: "MASTER ALLOCATION PLAN",
			Network: master.String(),
			Range:   masterRange,
		},
		{Kind: KindBlank},
	}

	for _, record := range records {
		rows = append(rows, buildRow(record))
	}
	return rows
}

func buildRow(record *ipam.Record) Row {
	switch record.Kind {
	case ipam.RecordHeader:
		return Row{
			Kind:    KindHeader,
			Purpose: "--- " + record.Purpose + " ---",
			Range:   record.Range,
		}

	case ipam.RecordBlank:
		return Row{Kind: KindBlank}

	case ipam.RecordError:
		return Row{
			Kind:    KindError,
			Purpose: record.Purpose,
		}
	}

	return Row{
		Kind:     KindData,
		Position: record.Position,
		Purpose:  record.Purpose,
		Network:  record.Network.String(),
		Range:    record.Range,
		Prefix:   "/" + strconv.Itoa(int(ipam.PrefixLen(record.Network))),
		Mask:     ipam.Netmask(record.Network),
		Hosts:    strconv.FormatUint(ipam.UsableHostCount(record.Network), 10),
	}
}

// WriteJSON serializes the rows as indented JSON.
func WriteJSON(w io.Writer, rows []Row) error {
	formatter := render.New(render.Options{IndentJSON: true})
	return formatter.JSON(w, 0, rows)
}

// WriteCSV serializes the rows as one CSV table with a single column-header
// line.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Position, row.Purpose, row.Network, row.Range,
			row.Prefix, row.Mask, row.Hosts,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Write stores the report under the given file name. Format "json" first,
// falling back to CSV (with the extension swapped) if the structured output
// cannot be produced; format "csv" goes straight to CSV. Returns the name of
// the file actually written.
func Write(fileName, format string, rows []Row) (string, error) {
	if format == "csv" {
		return fileName, writeFile(fileName, rows, WriteCSV)
	}

	if err := writeFile(fileName, rows, WriteJSON); err != nil {
		fallback := strings.TrimSuffix(fileName, ".json") + ".csv"
		if csvErr := writeFile(fallback, rows, WriteCSV); csvErr != nil {
			return "", errors.Wrap(csvErr, "fallback CSV output failed as well")
		}
		return fallback, nil
	}
	return fileName, nil
}

func writeFile(fileName string, rows []Row, serialize func(io.Writer, []Row) error) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "failed to create report file %s", fileName)
	}
	defer file.Close()

	if err := serialize(file, rows); err != nil {
		return errors.Wrapf(err, "failed to serialize report to %s", fileName)
	}
	return nil
}
