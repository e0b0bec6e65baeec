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

package graph

import (
	"fmt"
	"iter"
	"sync"
)

// Graph is an in-memory, single-owner, typed graph. All mutation happens
// on the driver goroutine during ingestion; after Finalize (a purely
// advisory marker — see Finalized) the graph is treated as read-only by
// convention, matching the "build once, then read-only" lifecycle in
// spec §3.
//
// Iteration order is insertion order, and is stable across runs given
// identical inputs, because nodes/edges are appended to an order slice as
// they are first added (duplicate adds are no-ops and do not reorder
// anything).
type Graph struct {
	mu sync.RWMutex

	nodes     map[string]*Node
	nodeOrder []string

	edges     map[string]*Edge
	edgeOrder []string

	// byFile indexes node ids by their "filePath" property, for
	// removeNodesByFile.
	byFile map[string]map[string]struct{}

	// memberOf enforces MEMBER_OF functionality (spec §3 invariant iv):
	// each symbol id maps to at most one community id.
	memberOf map[string]string

	finalized bool
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		byFile:   make(map[string]map[string]struct{}),
		memberOf: make(map[string]string),
	}
}

// AddNode inserts n if its id is not already present. Returns true if the
// node was newly added (first write wins, per spec §3 invariant ii).
func (g *Graph) AddNode(n *Node) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[n.ID]; exists {
		return false
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)

	if fp := n.FilePath(); fp != "" {
		set, ok := g.byFile[fp]
		if !ok {
			set = make(map[string]struct{})
			g.byFile[fp] = set
		}
		set[n.ID] = struct{}{}
	}
	return true
}

// AddRelationship inserts e if an edge with the same (sourceId, type,
// targetId) id is not already present. Returns an error if either
// endpoint does not exist (spec §8 P1) or if adding it would violate the
// MEMBER_OF functional constraint (spec §3 invariant iv / §8 P2).
func (g *Graph) AddRelationship(e *Edge) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[e.SourceID]; !ok {
		return false, fmt.Errorf("graph: source node %q does not exist", e.SourceID)
	}
	if _, ok := g.nodes[e.TargetID]; !ok {
		return false, fmt.Errorf("graph: target node %q does not exist", e.TargetID)
	}

	if e.ID == "" {
		e.ID = EdgeID(e.SourceID, e.Type, e.TargetID)
	}
	if _, exists := g.edges[e.ID]; exists {
		return false, nil
	}

	if e.Type == EdgeMemberOf {
		if existing, ok := g.memberOf[e.SourceID]; ok && existing != e.TargetID {
			return false, fmt.Errorf("graph: symbol %q is already a member of community %q", e.SourceID, existing)
		}
		g.memberOf[e.SourceID] = e.TargetID
	}

	g.edges[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)
	return true, nil
}

// GetNode returns the node with the given id, or nil if absent.
func (g *Graph) GetNode(id string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// RemoveNode deletes the node with the given id and any edges incident to
// it. Returns whether a node was actually removed.
func (g *Graph) RemoveNode(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeNodeLocked(id)
}

func (g *Graph) removeNodeLocked(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	delete(g.nodes, id)
	g.nodeOrder = removeString(g.nodeOrder, id)

	if fp := n.FilePath(); fp != "" {
		if set, ok := g.byFile[fp]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(g.byFile, fp)
			}
		}
	}
	delete(g.memberOf, id)

	var keepEdges []string
	for _, eid := range g.edgeOrder {
		e := g.edges[eid]
		if e.SourceID == id || e.TargetID == id {
			delete(g.edges, eid)
			continue
		}
		keepEdges = append(keepEdges, eid)
	}
	g.edgeOrder = keepEdges
	return true
}

// RemoveNodesByFile removes every node whose filePath property equals
// path, along with all edges incident to any of them (spec §3
// "Lifecycle", §8 P8). Returns the number of nodes removed.
func (g *Graph) RemoveNodesByFile(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.byFile[path]
	if !ok {
		return 0
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	count := 0
	for _, id := range ids {
		if g.removeNodeLocked(id) {
			count++
		}
	}
	return count
}

// Nodes returns a fresh snapshot slice of all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Relationships returns a fresh snapshot slice of all edges in insertion
// order.
func (g *Graph) Relationships() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// IterNodes lazily yields nodes in insertion order.
func (g *Graph) IterNodes() iter.Seq[*Node] {
	nodes := g.Nodes()
	return func(yield func(*Node) bool) {
		for _, n := range nodes {
			if !yield(n) {
				return
			}
		}
	}
}

// IterRelationships lazily yields edges in insertion order.
func (g *Graph) IterRelationships() iter.Seq[*Edge] {
	edges := g.Relationships()
	return func(yield func(*Edge) bool) {
		for _, e := range edges {
			if !yield(e) {
				return
			}
		}
	}
}

// ForEachNode calls fn for every node in insertion order.
func (g *Graph) ForEachNode(fn func(*Node)) {
	for _, n := range g.Nodes() {
		fn(n)
	}
}

// ForEachRelationship calls fn for every edge in insertion order.
func (g *Graph) ForEachRelationship(fn func(*Edge)) {
	for _, e := range g.Relationships() {
		fn(e)
	}
}

// NodeCount returns the number of nodes currently in the graph.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// RelationshipCount returns the number of edges currently in the graph.
func (g *Graph) RelationshipCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Finalize marks the graph as built. It does not prevent further
// mutation (the type has no read-only enforcement) but callers outside
// the ingestion driver should treat a finalized graph as immutable, per
// spec §3's lifecycle: "built once per run and then finalised... the
// in-memory form is discarded" after persistence.
func (g *Graph) Finalize() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.finalized = true
}

// Finalized reports whether Finalize has been called.
func (g *Graph) Finalized() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.finalized
}

// CommunityOf returns the community id a symbol belongs to, if any.
func (g *Graph) CommunityOf(symbolID string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.memberOf[symbolID]
	return id, ok
}

func removeString(ss []string, target string) []string {
	for i, s := range ss {
		if s == target {
			return append(ss[:i:i], ss[i+1:]...)
		}
	}
	return ss
}
