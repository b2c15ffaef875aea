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

// subnetplan is the command-line front end of the allocation planner.
//
// Usage:
//
//	subnetplan 10.15.0.0/17
//	subnetplan 10.15.0.0/17 --config plan.yaml --format csv -o plan.csv
//	subnetplan 10.15.0.0/17 --http-port 9999
package main
