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
	"fmt"
	"net/http"

	"github.com/ligato/cn-infra/logging"
	"github.com/unrolled/render"
)

// REST URLs under which the finished report is exposed.
const (
	RestURLReport    = "/report"
	RestURLReportCSV = "/report/csv"
)

// Server exposes a finished report over HTTP instead of (or next to) the file
// output. The rows are computed once; the server only serializes them.
type Server struct {
	Log  logging.Logger
	Rows []Row
}

// Handler builds the HTTP handler serving the report endpoints.
func (s *Server) Handler() http.Handler {
	formatter := render.New(render.Options{IndentJSON: true})

	mux := http.NewServeMux()
	mux.HandleFunc(RestURLReport, s.reportGetHandler(formatter))
	mux.HandleFunc(RestURLReportCSV, s.reportCSVGetHandler)

	s.Log.Infof("Report REST handlers registered: GET %v, GET %v",
		RestURLReport, RestURLReportCSV)
	return mux
}

// ListenAndServe blocks serving the report on the given port.
func (s *Server) ListenAndServe(port int) error {
	s.Log.Infof("Serving allocation report on port %d", port)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}
	return server.ListenAndServe()
}

func (s *Server) reportGetHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.Log.Debug("Getting allocation report")
		formatter.JSON(w, http.StatusOK, s.Rows)
	}
}

func (s *Server) reportCSVGetHandler(w http.ResponseWriter, req *http.Request) {
	s.Log.Debug("Getting allocation report as CSV")
	w.Header().Set("Content-Type", "text/csv")
	if err := WriteCSV(w, s.Rows); err != nil {
		s.Log.Errorf("CSV serialization failed: %v", err)
	}
}
