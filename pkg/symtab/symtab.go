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

// Package symtab indexes extracted definitions by name so the call and
// heritage processors can resolve references without re-scanning the
// graph.
package symtab

import "github.com/kraklabs/graphkit/pkg/graph"

// Entry is one fuzzy-index hit: a symbol's node id, defining file, and
// kind.
type Entry struct {
	NodeID   string
	FilePath string
	Kind     graph.NodeKind
}

type exactKey struct {
	filePath string
	name     string
}

// Stats summarises the table's contents.
type Stats struct {
	FileCount         int
	GlobalSymbolCount int
}

// Table holds the two symbol indices built once extraction completes.
// It is not safe for concurrent writes; it is built single-threaded by
// the pipeline driver after all extraction workers finish.
type Table struct {
	exact map[exactKey]string
	fuzzy map[string][]Entry
	files map[string]struct{}
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		exact: make(map[exactKey]string),
		fuzzy: make(map[string][]Entry),
		files: make(map[string]struct{}),
	}
}

// Add records a single definition. Last write wins for the exact index;
// the fuzzy index is append-only and preserves duplicates.
func (t *Table) Add(filePath, name, nodeID string, kind graph.NodeKind) {
	t.exact[exactKey{filePath, name}] = nodeID
	t.fuzzy[name] = append(t.fuzzy[name], Entry{NodeID: nodeID, FilePath: filePath, Kind: kind})
	t.files[filePath] = struct{}{}
}

// LookupExact returns the node id defined as name in filePath, if any.
func (t *Table) LookupExact(filePath, name string) (string, bool) {
	id, ok := t.exact[exactKey{filePath, name}]
	return id, ok
}

// LookupFuzzy returns every definition named name across all files, in
// the order they were added. The returned slice may be empty.
func (t *Table) LookupFuzzy(name string) []Entry {
	return t.fuzzy[name]
}

// Clear resets both indices.
func (t *Table) Clear() {
	t.exact = make(map[exactKey]string)
	t.fuzzy = make(map[string][]Entry)
	t.files = make(map[string]struct{})
}

// GetStats reports the number of distinct files and distinct global
// symbol names currently indexed.
func (t *Table) GetStats() Stats {
	return Stats{FileCount: len(t.files), GlobalSymbolCount: len(t.fuzzy)}
}
