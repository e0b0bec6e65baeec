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

// Package testing provides seeding and query helpers for tests that
// need a populated pkg/graph.Graph or a scratch tabular storage
// backend, without every package reimplementing the same fixture
// boilerplate.
//
// # Quick Start
//
// Use SetupTestGraph to create an empty graph, then seed it directly:
//
//	func TestMyFeature(t *testing.T) {
//	    g := testing.SetupTestGraph(t)
//	    testing.InsertTestFunction(t, g, "TestFunc", "test.go", 10, 20, true)
//
//	    funcs := testing.QueryFunctions(t, g)
//	    require.Len(t, funcs, 1)
//	}
//
// # Seeding Test Data
//
// The package provides helpers for inserting common test entities:
//   - InsertTestFile: add a File node
//   - InsertTestFunction: add a Function node
//   - InsertTestType: add a class-like node (struct/interface/class)
//   - InsertTestDefines: link a File node to a symbol via DEFINES
//   - InsertTestCalls: link two symbols via CALLS
//   - InsertTestImport: link two File nodes via IMPORTS
//
// # Querying Test Data
//
// Helper functions for common queries:
//   - QueryFunctions: get all Function nodes
//   - QueryFiles: get all File nodes
//   - QueryTypes: get all class-like nodes
//
// # Storage-backed tests
//
// For tests exercising pkg/storage/tabular directly, use
// SetupTestBackend, which opens a backend rooted at a fresh temporary
// directory and releases its lock file on cleanup.
package testing
