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
	"context"

	"github.com/kraklabs/graphkit/pkg/graph"
)

// Safety limits on TracePath's breadth-first search, so a query against
// a large, densely connected graph degrades gracefully instead of
// running unbounded.
const (
	maxNodesExplored = 5000
	defaultMaxPaths  = 5
	defaultMaxDepth  = 12
)

// FindCallers returns every node with a CALLS edge targeting symbolID.
func FindCallers(g *graph.Graph, symbolID string) []SymbolRef {
	var out []SymbolRef
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeCalls || e.TargetID != symbolID {
			continue
		}
		if n := g.GetNode(e.SourceID); n != nil {
			out = append(out, refOf(n))
		}
	}
	return out
}

// FindCallees returns every node symbolID has a CALLS edge to.
func FindCallees(g *graph.Graph, symbolID string) []SymbolRef {
	var out []SymbolRef
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeCalls || e.SourceID != symbolID {
			continue
		}
		if n := g.GetNode(e.TargetID); n != nil {
			out = append(out, refOf(n))
		}
	}
	return out
}

// TracePathArgs configures TracePath.
type TracePathArgs struct {
	// Source is a symbol name or id to start from. If empty, every node
	// with no callers (a natural entry point) is used as a source.
	Source string
	// Target is the symbol name or id to search for. Required.
	Target string
	// MaxPaths caps how many paths are returned. Defaults to 5.
	MaxPaths int
	// MaxDepth caps how many hops a path may take. Defaults to 12.
	MaxDepth int
}

// Path is one call chain from a source symbol to the target.
type Path struct {
	Nodes []SymbolRef
}

// TracePathResult is TracePath's outcome.
type TracePathResult struct {
	Paths           []Path
	NodesExplored   int
	SearchLimitHit  bool
	SourcesResolved []SymbolRef
}

// TracePath performs a breadth-first search over CALLS edges from one
// or more source symbols to a target symbol, returning the shortest
// paths found. Grounded on the same BFS-with-safety-limits shape used
// for caller/callee graph traversal elsewhere in the corpus, adapted to
// walk pkg/graph.Graph in memory instead of issuing per-hop queries.
func TracePath(ctx context.Context, g *graph.Graph, args TracePathArgs) TracePathResult {
	maxPaths := args.MaxPaths
	if maxPaths <= 0 {
		maxPaths = defaultMaxPaths
	}
	maxDepth := args.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	var sources []*graph.Node
	if args.Source == "" {
		sources = entryPointNodes(g)
	} else {
		sources = resolveSymbol(g, args.Source)
	}
	targets := resolveSymbol(g, args.Target)
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t.ID] = true
	}

	result := TracePathResult{}
	for _, s := range sources {
		result.SourcesResolved = append(result.SourcesResolved, refOf(s))
	}
	if len(sources) == 0 || len(targets) == 0 {
		return result
	}

	type frame struct {
		id   string
		path []*graph.Node
	}

	calleesOf := make(map[string][]*graph.Node)
	for _, s := range sources {
		if len(result.Paths) >= maxPaths {
			break
		}
		select {
		case <-ctx.Done():
			return result
		default:
		}

		visited := map[string]bool{}
		queue := []frame{{id: s.ID, path: []*graph.Node{s}}}

		for len(queue) > 0 && len(result.Paths) < maxPaths {
			if result.NodesExplored >= maxNodesExplored {
				result.SearchLimitHit = true
				break
			}
			cur := queue[0]
			queue = queue[1:]

			if len(cur.path) > maxDepth+1 {
				continue
			}
			if visited[cur.id] {
				continue
			}
			visited[cur.id] = true
			result.NodesExplored++

			if targetSet[cur.id] && len(cur.path) > 1 {
				path := Path{}
				for _, n := range cur.path {
					path.Nodes = append(path.Nodes, refOf(n))
				}
				result.Paths = append(result.Paths, path)
				continue
			}

			callees, ok := calleesOf[cur.id]
			if !ok {
				callees = calleeNodes(g, cur.id)
				calleesOf[cur.id] = callees
			}
			for _, callee := range callees {
				if visited[callee.ID] {
					continue
				}
				newPath := append(append([]*graph.Node{}, cur.path...), callee)
				queue = append(queue, frame{id: callee.ID, path: newPath})
			}
		}
		if result.SearchLimitHit {
			break
		}
	}
	return result
}

func calleeNodes(g *graph.Graph, symbolID string) []*graph.Node {
	var out []*graph.Node
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeCalls || e.SourceID != symbolID {
			continue
		}
		if n := g.GetNode(e.TargetID); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func resolveSymbol(g *graph.Graph, nameOrID string) []*graph.Node {
	if n := g.GetNode(nameOrID); n != nil {
		return []*graph.Node{n}
	}
	return findSymbol(g, nameOrID)
}

// entryPointNodes returns every callable symbol with no incoming CALLS
// edge, the natural BFS starting set when no source was specified.
func entryPointNodes(g *graph.Graph) []*graph.Node {
	hasCaller := map[string]bool{}
	for e := range g.IterRelationships() {
		if e.Type == graph.EdgeCalls {
			hasCaller[e.TargetID] = true
		}
	}
	var out []*graph.Node
	for n := range g.IterNodes() {
		if n.Label == graph.KindFunction || n.Label == graph.KindMethod {
			if !hasCaller[n.ID] {
				out = append(out, n)
			}
		}
	}
	return out
}
