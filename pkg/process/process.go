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

// Package process enumerates execution flows ("processes") by walking
// CALLS edges depth-first from high-scoring entry points.
package process

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kraklabs/graphkit/pkg/graph"
)

// Config tunes the traversal; DefaultConfig returns the defaults, which
// the pipeline substitutes for a zero value.
type Config struct {
	MinTraceConfidence  float64
	MaxTraceDepth       int
	MinSteps            int
	MaxProcesses        int
	EntriesPerCommunity int
}

// DefaultConfig returns spec §4.13's documented defaults.
func DefaultConfig() Config {
	return Config{
		MinTraceConfidence:  0.5,
		MaxTraceDepth:       8,
		MinSteps:            3,
		MaxProcesses:        50,
		EntriesPerCommunity: 5,
	}
}

// EntryCandidate is one symbol eligible to seed a trace.
type EntryCandidate struct {
	NodeID      string
	Score       float64
	CommunityID string
	FilePath    string
}

// ProgressFunc reports (message, percent).
type ProgressFunc func(message string, percent int)

// Trace is one accepted execution flow before materialisation.
type Trace struct {
	ID             string
	Members        []string
	EntryPointID   string
	TerminalID     string
	ProcessType    string
	Communities    []string
	HeuristicLabel string
}

type callEdge struct {
	targetID   string
	confidence float64
}

// Detect runs entry selection, DFS traversal, acceptance, classification
// and capping, returning the accepted traces in materialisation order:
// longest first. Edge confidence plays no part in this ordering or in
// which traces survive the cap; traces of equal length keep seed order.
func Detect(g *graph.Graph, entries []EntryCandidate, communityOf map[string]string, cfg Config, progress ProgressFunc) []Trace {
	adjacency := buildCallAdjacency(g, cfg.MinTraceConfidence)
	entryScore := make(map[string]float64, len(entries))
	for _, e := range entries {
		entryScore[e.NodeID] = e.Score
	}

	seeds := selectEntries(entries, cfg.EntriesPerCommunity)

	var traces []Trace
	total := len(seeds)
	for i, seed := range seeds {
		path := traverse(seed.NodeID, adjacency, entryScore, cfg.MaxTraceDepth)
		if len(path) >= cfg.MinSteps {
			traces = append(traces, buildTrace(path, communityOf))
		}
		if progress != nil {
			progress(fmt.Sprintf("traced %s", seed.NodeID), percentOf(i+1, total))
		}
	}

	sort.SliceStable(traces, func(i, j int) bool {
		return len(traces[i].Members) > len(traces[j].Members)
	})

	if len(traces) > cfg.MaxProcesses {
		traces = traces[:cfg.MaxProcesses]
	}
	return traces
}

func percentOf(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}

func buildCallAdjacency(g *graph.Graph, minConfidence float64) map[string][]callEdge {
	adjacency := make(map[string][]callEdge)
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeCalls || e.Confidence < minConfidence {
			continue
		}
		adjacency[e.SourceID] = append(adjacency[e.SourceID], callEdge{targetID: e.TargetID, confidence: e.Confidence})
	}
	return adjacency
}

// selectEntries picks the top entriesPerCommunity candidates (by score
// descending) within each community.
func selectEntries(entries []EntryCandidate, perCommunity int) []EntryCandidate {
	byCommunity := make(map[string][]EntryCandidate)
	var order []string
	for _, e := range entries {
		if _, seen := byCommunity[e.CommunityID]; !seen {
			order = append(order, e.CommunityID)
		}
		byCommunity[e.CommunityID] = append(byCommunity[e.CommunityID], e)
	}

	var out []EntryCandidate
	for _, community := range order {
		list := byCommunity[community]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Score > list[j].Score })
		if len(list) > perCommunity {
			list = list[:perCommunity]
		}
		out = append(out, list...)
	}
	return out
}

// traverse performs a depth-first walk from start, choosing at each
// branch the outgoing edge with highest confidence, ties broken by
// callee entry score descending then insertion order.
func traverse(start string, adjacency map[string][]callEdge, entryScore map[string]float64, maxDepth int) []string {
	visited := map[string]bool{start: true}
	path := []string{start}

	current := start
	for depth := 1; depth < maxDepth; depth++ {
		edges := adjacency[current]
		if len(edges) == 0 {
			break
		}

		best := -1
		for i, e := range edges {
			if visited[e.targetID] {
				continue
			}
			if best == -1 {
				best = i
				continue
			}
			if better(edges[i], edges[best], entryScore) {
				best = i
			}
		}
		if best == -1 {
			break
		}

		next := edges[best].targetID
		visited[next] = true
		path = append(path, next)
		current = next
	}
	return path
}

func better(a, b callEdge, entryScore map[string]float64) bool {
	if a.confidence != b.confidence {
		return a.confidence > b.confidence
	}
	sa, sb := entryScore[a.targetID], entryScore[b.targetID]
	if sa != sb {
		return sa > sb
	}
	return false
}

func buildTrace(path []string, communityOf map[string]string) Trace {
	entry, terminal := path[0], path[len(path)-1]

	seenCommunity := make(map[string]bool)
	var communities []string
	allSame := true
	var firstCommunity string
	for i, id := range path {
		c := communityOf[id]
		if i == 0 {
			firstCommunity = c
		} else if c != firstCommunity {
			allSame = false
		}
		if c != "" && !seenCommunity[c] {
			seenCommunity[c] = true
			communities = append(communities, c)
		}
	}

	processType := "intra_community"
	if !allSame {
		processType = "cross_community"
	}

	return Trace{
		ID:             fmt.Sprintf("Process:%s:%s", entry, terminal),
		Members:        path,
		EntryPointID:   entry,
		TerminalID:     terminal,
		ProcessType:    processType,
		Communities:    communities,
		HeuristicLabel: pascalName(entry) + " → " + pascalName(terminal),
	}
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// pascalName extracts the trailing ":"-delimited name component of a
// node id (if present) and PascalCases it.
func pascalName(nodeID string) string {
	parts := strings.Split(nodeID, ":")
	name := parts[len(parts)-1]
	if len(parts) >= 3 {
		name = parts[len(parts)-2]
	}

	words := nonAlnum.Split(name, -1)
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	if b.Len() == 0 {
		return name
	}
	return b.String()
}

// Materialize adds a Process node and STEP_IN_PROCESS edges for each
// trace.
func Materialize(g *graph.Graph, traces []Trace) error {
	for _, tr := range traces {
		g.AddNode(&graph.Node{
			ID:    tr.ID,
			Label: graph.KindProcess,
			Properties: map[string]any{
				"entryPointId":   tr.EntryPointID,
				"terminalId":     tr.TerminalID,
				"processType":    tr.ProcessType,
				"communities":    tr.Communities,
				"heuristicLabel": tr.HeuristicLabel,
				"stepCount":      len(tr.Members),
			},
		})
		for i, member := range tr.Members {
			if _, err := g.AddRelationship(&graph.Edge{
				SourceID: tr.ID,
				TargetID: member,
				Type:     graph.EdgeStepInProcess,
				Step:     i + 1,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
