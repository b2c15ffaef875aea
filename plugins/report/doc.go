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

// Package report renders finished allocation records into the output report.
//
// BuildRows turns the record sequence into pre-formatted rows, prefixed with
// the master-plan summary. Write stores them as JSON, falling back to CSV if
// structured output cannot be produced; Server exposes the same rows over
// HTTP.
package report
