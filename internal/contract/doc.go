// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package contract checks a finished pkg/graph.Graph against the
// invariants an ingestion run is expected to uphold:
//
//	result := contract.Validate(g)
//	if !result.OK {
//	    for _, v := range result.Violations {
//	        log.Println(v)
//	    }
//	}
//
// These correspond to the graph properties P1 through P6: edge
// endpoints must exist, MEMBER_OF must be functional, process step
// numbering must be contiguous and gap-free, process traces must be
// acyclic, CALLS edges must carry a recognised confidence/reason pair,
// and CONTAINS must form a forest over File/Folder nodes. P7
// (idempotent add) is a property of pkg/graph's own API and is
// exercised by that package's tests rather than checked here; P8
// (removal by file) is likewise covered only by pkg/graph's tests.
package contract
