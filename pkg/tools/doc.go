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

// Package tools implements a small set of read-only query operations
// over a finished pkg/graph.Graph: who calls a symbol, who it calls,
// the call path between two symbols, the blast radius of changing a
// symbol, and a rename preview listing every site a rename would touch.
//
// Every operation here is a pure graph traversal; none of them mutate
// the graph or depend on anything beyond pkg/graph, so they're equally
// usable from the CLI, a long-running query server, or a test.
package tools
