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

import "github.com/kraklabs/graphkit/pkg/graph"

// ImpactArgs configures Impact.
type ImpactArgs struct {
	// Symbol is a symbol name or id to analyze. Required.
	Symbol string
	// MaxDepth caps how many CALLS hops of transitive callers to
	// follow. Zero means unbounded.
	MaxDepth int
}

// ImpactResult is the blast radius of changing a symbol: every symbol
// that transitively calls it, plus the distinct files and any class-like
// types it participates in via EXTENDS/IMPLEMENTS.
type ImpactResult struct {
	Symbol         SymbolRef
	Callers        []SymbolRef
	AffectedFiles  []string
	Subtypes       []SymbolRef
	Implementers   []SymbolRef
	SearchLimitHit bool
}

// Impact computes the transitive closure of callers of a symbol (the
// set of code that would need to be reviewed, and possibly changed, if
// the symbol's behavior changes), plus any EXTENDS/IMPLEMENTS
// relationships rooted at it.
func Impact(g *graph.Graph, args ImpactArgs) ImpactResult {
	symbols := resolveSymbol(g, args.Symbol)
	if len(symbols) == 0 {
		return ImpactResult{}
	}
	root := symbols[0]

	callersBySymbol := make(map[string][]string)
	var subtypes, implementers []SymbolRef
	for e := range g.IterRelationships() {
		switch e.Type {
		case graph.EdgeCalls:
			callersBySymbol[e.TargetID] = append(callersBySymbol[e.TargetID], e.SourceID)
		case graph.EdgeExtends:
			if e.TargetID == root.ID {
				if n := g.GetNode(e.SourceID); n != nil {
					subtypes = append(subtypes, refOf(n))
				}
			}
		case graph.EdgeImplements:
			if e.TargetID == root.ID {
				if n := g.GetNode(e.SourceID); n != nil {
					implementers = append(implementers, refOf(n))
				}
			}
		}
	}

	visited := map[string]bool{root.ID: true}
	queue := []struct {
		id    string
		depth int
	}{{root.ID, 0}}

	var callers []SymbolRef
	files := map[string]bool{}
	limitHit := false

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if args.MaxDepth > 0 && cur.depth >= args.MaxDepth {
			continue
		}
		if len(visited) > maxNodesExplored {
			limitHit = true
			break
		}
		for _, callerID := range callersBySymbol[cur.id] {
			if visited[callerID] {
				continue
			}
			visited[callerID] = true
			n := g.GetNode(callerID)
			if n == nil {
				continue
			}
			callers = append(callers, refOf(n))
			if fp := n.FilePath(); fp != "" {
				files[fp] = true
			}
			queue = append(queue, struct {
				id    string
				depth int
			}{callerID, cur.depth + 1})
		}
	}

	var fileList []string
	for f := range files {
		fileList = append(fileList, f)
	}

	return ImpactResult{
		Symbol:         refOf(root),
		Callers:        callers,
		AffectedFiles:  fileList,
		Subtypes:       subtypes,
		Implementers:   implementers,
		SearchLimitHit: limitHit,
	}
}
