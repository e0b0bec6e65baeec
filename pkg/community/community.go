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

// Package community partitions the CALLS/IMPORTS subgraph into Community
// nodes using weakly-connected components refined by a modularity-like
// best-neighbour reassignment pass.
package community

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kraklabs/graphkit/pkg/graph"
)

// Colors is the fixed 12-color palette clusters are assigned from, by
// index modulo 12.
var Colors = [12]string{
	"#E63946", "#F1A208", "#F4D35E", "#8AC926",
	"#2A9D8F", "#1D8A99", "#457B9D", "#3A86FF",
	"#6A4C93", "#B5179E", "#FF6B6B", "#6D6875",
}

// Cluster is one detected community before it is materialised into the
// graph.
type Cluster struct {
	ID             string
	Members        []string
	HeuristicLabel string
	Keywords       []string
	Cohesion       float64
	SymbolCount    int
	Color          string
}

// Stats summarises the community detection run.
type Stats struct {
	ClusterCount int
	SymbolCount  int
}

// smallGraphThreshold below which the refinement pass is skipped in
// favour of plain connected components (spec §4.12 "fallback to
// connected components when the graph is very small").
const smallGraphThreshold = 4

// refinementRounds bounds the best-neighbour reassignment pass.
const refinementRounds = 10

// Detect partitions g's symbol nodes (every non-structural, non-derived
// node) using CALLS and IMPORTS edges, returning clusters and a
// memberships map (nodeId -> clusterIndex). scorer supplies each node's
// entry-point score, used for cluster labelling.
func Detect(g *graph.Graph, scorer func(nodeID string) float64) ([]Cluster, map[string]int) {
	symbolIDs, adjacency := buildSymbolGraph(g)
	if len(symbolIDs) == 0 {
		return nil, map[string]int{}
	}

	assignment := weaklyConnectedComponents(symbolIDs, adjacency)

	if len(symbolIDs) >= smallGraphThreshold {
		assignment = refine(symbolIDs, adjacency, assignment)
	}

	clusters := buildClusters(g, symbolIDs, adjacency, assignment, scorer)
	memberships := make(map[string]int, len(symbolIDs))
	for idx, c := range clusters {
		for _, id := range c.Members {
			memberships[id] = idx
		}
	}
	return clusters, memberships
}

func buildSymbolGraph(g *graph.Graph) ([]string, map[string]map[string]struct{}) {
	var ids []string
	isSymbol := make(map[string]bool)
	for n := range g.IterNodes() {
		switch n.Label {
		case graph.KindFile, graph.KindFolder, graph.KindCommunity, graph.KindProcess:
			continue
		}
		ids = append(ids, n.ID)
		isSymbol[n.ID] = true
	}

	adjacency := make(map[string]map[string]struct{}, len(ids))
	for _, id := range ids {
		adjacency[id] = make(map[string]struct{})
	}
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeCalls && e.Type != graph.EdgeImports {
			continue
		}
		if !isSymbol[e.SourceID] || !isSymbol[e.TargetID] {
			continue
		}
		adjacency[e.SourceID][e.TargetID] = struct{}{}
		adjacency[e.TargetID][e.SourceID] = struct{}{}
	}
	return ids, adjacency
}

func weaklyConnectedComponents(ids []string, adjacency map[string]map[string]struct{}) []int {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	assignment := make([]int, len(ids))
	for i := range assignment {
		assignment[i] = -1
	}

	component := 0
	for i, id := range ids {
		if assignment[i] != -1 {
			continue
		}
		stack := []string{id}
		assignment[i] = component
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for neighbor := range adjacency[cur] {
				ni := index[neighbor]
				if assignment[ni] == -1 {
					assignment[ni] = component
					stack = append(stack, neighbor)
				}
			}
		}
		component++
	}
	return assignment
}

// refine runs a bounded number of best-neighbour reassignment passes: a
// node moves to the cluster most of its neighbours belong to, when doing
// so does not strictly decrease that simple local-majority measure.
// This approximates modularity optimisation without requiring a full
// Louvain implementation.
func refine(ids []string, adjacency map[string]map[string]struct{}, assignment []int) []int {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	for round := 0; round < refinementRounds; round++ {
		changed := false
		for i, id := range ids {
			counts := make(map[int]int)
			for neighbor := range adjacency[id] {
				counts[assignment[index[neighbor]]]++
			}
			best, bestCount := assignment[i], -1
			var bestClusters []int
			for cluster, count := range counts {
				if count > bestCount {
					bestCount = count
					bestClusters = []int{cluster}
				} else if count == bestCount {
					bestClusters = append(bestClusters, cluster)
				}
			}
			sort.Ints(bestClusters)
			if len(bestClusters) > 0 {
				best = bestClusters[0]
			}
			if best != assignment[i] && bestCount > 0 {
				assignment[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return assignment
}

func buildClusters(g *graph.Graph, ids []string, adjacency map[string]map[string]struct{}, assignment []int, scorer func(string) float64) []Cluster {
	byCluster := make(map[int][]string)
	for i, id := range ids {
		byCluster[assignment[i]] = append(byCluster[assignment[i]], id)
	}

	var clusterKeys []int
	for k := range byCluster {
		clusterKeys = append(clusterKeys, k)
	}
	sort.Ints(clusterKeys)

	memberSet := make(map[string]int, len(ids))
	for i, id := range ids {
		memberSet[id] = assignment[i]
	}

	clusters := make([]Cluster, 0, len(clusterKeys))
	for idx, key := range clusterKeys {
		members := byCluster[key]
		sort.Strings(members)

		intra, boundary := 0, 0
		for _, m := range members {
			for neighbor := range adjacency[m] {
				if memberSet[neighbor] == key {
					intra++
				} else {
					boundary++
				}
			}
		}
		cohesion := 1.0
		if intra+boundary > 0 {
			cohesion = float64(intra) / float64(intra+boundary)
		}

		clusters = append(clusters, Cluster{
			ID:             fmt.Sprintf("Community:%d", idx),
			Members:        members,
			HeuristicLabel: heuristicLabel(g, members, scorer),
			Keywords:       keywords(g, members),
			Cohesion:       cohesion,
			SymbolCount:    len(members),
			Color:          Colors[idx%len(Colors)],
		})
	}
	return clusters
}

func heuristicLabel(g *graph.Graph, members []string, scorer func(string) float64) string {
	names := make([]string, 0, len(members))
	for _, id := range members {
		if n := g.GetNode(id); n != nil && n.Name() != "" {
			names = append(names, n.Name())
		}
	}
	if stem := longestCommonTokenStem(names); stem != "" {
		return stem
	}

	var best string
	bestScore := -1.0
	for _, id := range members {
		if scorer == nil {
			continue
		}
		s := scorer(id)
		if s > bestScore {
			bestScore = s
			if n := g.GetNode(id); n != nil {
				best = n.Name()
			}
		}
	}
	return best
}

var tokenSplit = regexp.MustCompile(`[A-Z]?[a-z0-9]+|[A-Z]+(?:[A-Z][a-z0-9]*)?`)

func tokenize(name string) []string {
	return tokenSplit.FindAllString(name, -1)
}

// longestCommonTokenStem returns the longest shared leading sequence of
// lowercased tokens across names, joined with a space. Empty if no token
// is shared by every name.
func longestCommonTokenStem(names []string) string {
	if len(names) == 0 {
		return ""
	}
	var tokenLists [][]string
	for _, n := range names {
		var lowered []string
		for _, t := range tokenize(n) {
			lowered = append(lowered, strings.ToLower(t))
		}
		tokenLists = append(tokenLists, lowered)
	}

	minLen := len(tokenLists[0])
	for _, tl := range tokenLists {
		if len(tl) < minLen {
			minLen = len(tl)
		}
	}

	var stem []string
	for i := 0; i < minLen; i++ {
		tok := tokenLists[0][i]
		for _, tl := range tokenLists[1:] {
			if tl[i] != tok {
				return strings.Join(stem, " ")
			}
		}
		stem = append(stem, tok)
	}
	return strings.Join(stem, " ")
}

const maxKeywords = 8

func keywords(g *graph.Graph, members []string) []string {
	freq := make(map[string]int)
	for _, id := range members {
		n := g.GetNode(id)
		if n == nil {
			continue
		}
		for _, t := range tokenize(n.Name()) {
			freq[strings.ToLower(t)]++
		}
	}

	type kv struct {
		token string
		count int
	}
	var all []kv
	for k, v := range freq {
		all = append(all, kv{k, v})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].token < all[j].token
	})

	var out []string
	for i, e := range all {
		if i >= maxKeywords {
			break
		}
		out = append(out, e.token)
	}
	return out
}

// Materialize adds a Community node per cluster and a MEMBER_OF edge
// from each member to its cluster.
func Materialize(g *graph.Graph, clusters []Cluster) error {
	for _, c := range clusters {
		g.AddNode(&graph.Node{
			ID:    c.ID,
			Label: graph.KindCommunity,
			Properties: map[string]any{
				"name":           c.HeuristicLabel,
				"heuristicLabel": c.HeuristicLabel,
				"keywords":       c.Keywords,
				"cohesion":       c.Cohesion,
				"symbolCount":    c.SymbolCount,
				"color":          c.Color,
			},
		})
		for _, member := range c.Members {
			if _, err := g.AddRelationship(&graph.Edge{SourceID: member, TargetID: c.ID, Type: graph.EdgeMemberOf, Confidence: 1.0}); err != nil {
				return err
			}
		}
	}
	return nil
}
