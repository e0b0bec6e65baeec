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

package tools

import (
	"fmt"
	"sort"

	"github.com/kraklabs/graphkit/pkg/graph"
)

// RenameSite is one location a symbol rename would need to touch.
type RenameSite struct {
	FilePath string
	Line     int
	Reason   string
}

// RenamePreviewResult lists every site a rename of a symbol would touch,
// without performing any edit.
type RenamePreviewResult struct {
	Symbol SymbolRef
	Sites  []RenameSite
}

// RenamePreview reports the definition site plus every call site and
// heritage (EXTENDS/IMPLEMENTS) reference touching a symbol, ordered by
// file path then line, so a caller can review the blast radius of a
// rename before applying it. Community and process memberships are not
// reported. This package never edits source files; it only reports.
func RenamePreview(g *graph.Graph, nameOrID string) (RenamePreviewResult, error) {
	symbols := resolveSymbol(g, nameOrID)
	if len(symbols) == 0 {
		return RenamePreviewResult{}, fmt.Errorf("tools: no symbol matches %q", nameOrID)
	}
	if len(symbols) > 1 {
		return RenamePreviewResult{}, fmt.Errorf("tools: %q is ambiguous (%d matches); rename by node id instead", nameOrID, len(symbols))
	}
	target := symbols[0]

	var sites []RenameSite
	if fp := target.FilePath(); fp != "" {
		line, _ := target.Properties["startLine"].(int)
		sites = append(sites, RenameSite{FilePath: fp, Line: line, Reason: "definition"})
	}

	for e := range g.IterRelationships() {
		var other *graph.Node
		var reason string
		switch {
		case e.Type == graph.EdgeCalls && e.TargetID == target.ID:
			other, reason = g.GetNode(e.SourceID), "call site"
		case e.Type == graph.EdgeExtends && e.TargetID == target.ID:
			other, reason = g.GetNode(e.SourceID), "extends reference"
		case e.Type == graph.EdgeImplements && e.TargetID == target.ID:
			other, reason = g.GetNode(e.SourceID), "implements reference"
		default:
			continue
		}
		if other == nil {
			continue
		}
		line, _ := other.Properties["startLine"].(int)
		sites = append(sites, RenameSite{FilePath: other.FilePath(), Line: line, Reason: reason})
	}

	sort.Slice(sites, func(i, j int) bool {
		if sites[i].FilePath != sites[j].FilePath {
			return sites[i].FilePath < sites[j].FilePath
		}
		return sites[i].Line < sites[j].Line
	})

	return RenamePreviewResult{Symbol: refOf(target), Sites: sites}, nil
}
