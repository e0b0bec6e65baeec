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

package process_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/process"
)

func addFunc(g *graph.Graph, id string) {
	g.AddNode(&graph.Node{ID: id, Label: graph.KindFunction, Properties: map[string]any{"name": id}})
}

func TestDetectAcceptsTraceMeetingMinSteps(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		addFunc(g, id)
	}
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.9})
	require.NoError(t, err)
	_, err = g.AddRelationship(&graph.Edge{SourceID: "b", TargetID: "c", Type: graph.EdgeCalls, Confidence: 0.9})
	require.NoError(t, err)
	_, err = g.AddRelationship(&graph.Edge{SourceID: "c", TargetID: "d", Type: graph.EdgeCalls, Confidence: 0.9})
	require.NoError(t, err)

	entries := []process.EntryCandidate{{NodeID: "a", Score: 10, CommunityID: "Community:0"}}
	traces := process.Detect(g, entries, map[string]string{"a": "Community:0", "b": "Community:0", "c": "Community:0", "d": "Community:0"}, process.DefaultConfig(), nil)

	require.Len(t, traces, 1)
	assert.Equal(t, []string{"a", "b", "c", "d"}, traces[0].Members)
	assert.Equal(t, "intra_community", traces[0].ProcessType)
}

func TestDetectRejectsShortTrace(t *testing.T) {
	g := graph.New()
	addFunc(g, "a")
	addFunc(g, "b")
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.9})
	require.NoError(t, err)

	entries := []process.EntryCandidate{{NodeID: "a", Score: 10, CommunityID: "Community:0"}}
	traces := process.Detect(g, entries, map[string]string{"a": "Community:0", "b": "Community:0"}, process.DefaultConfig(), nil)
	assert.Empty(t, traces)
}

func TestDetectClassifiesCrossCommunity(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		addFunc(g, id)
	}
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.9})
	require.NoError(t, err)
	_, err = g.AddRelationship(&graph.Edge{SourceID: "b", TargetID: "c", Type: graph.EdgeCalls, Confidence: 0.9})
	require.NoError(t, err)

	entries := []process.EntryCandidate{{NodeID: "a", Score: 10, CommunityID: "Community:0"}}
	traces := process.Detect(g, entries, map[string]string{"a": "Community:0", "b": "Community:0", "c": "Community:1"}, process.DefaultConfig(), nil)
	require.Len(t, traces, 1)
	assert.Equal(t, "cross_community", traces[0].ProcessType)
	assert.Equal(t, []string{"Community:0", "Community:1"}, traces[0].Communities)
}

func TestDetectIgnoresLowConfidenceEdges(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		addFunc(g, id)
	}
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.3})
	require.NoError(t, err)

	entries := []process.EntryCandidate{{NodeID: "a", Score: 10, CommunityID: "Community:0"}}
	traces := process.Detect(g, entries, map[string]string{"a": "Community:0"}, process.DefaultConfig(), nil)
	assert.Empty(t, traces)
}

func TestMaterializeEmitsDenseStepNumbers(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		addFunc(g, id)
	}
	traces := []process.Trace{{ID: "Process:a:c", Members: []string{"a", "b", "c"}, EntryPointID: "a", TerminalID: "c", ProcessType: "intra_community"}}
	require.NoError(t, process.Materialize(g, traces))

	steps := map[int]string{}
	for e := range g.IterRelationships() {
		if e.Type == graph.EdgeStepInProcess {
			steps[e.Step] = e.TargetID
		}
	}
	assert.Equal(t, map[int]string{1: "a", 2: "b", 3: "c"}, steps)
}

func TestCapsAtMaxProcesses(t *testing.T) {
	g := graph.New()
	var entries []process.EntryCandidate
	communityOf := map[string]string{}
	for i := 0; i < 5; i++ {
		a := "a" + string(rune('0'+i))
		b := "b" + string(rune('0'+i))
		c := "c" + string(rune('0'+i))
		addFunc(g, a)
		addFunc(g, b)
		addFunc(g, c)
		_, err := g.AddRelationship(&graph.Edge{SourceID: a, TargetID: b, Type: graph.EdgeCalls, Confidence: 0.9})
		require.NoError(t, err)
		_, err = g.AddRelationship(&graph.Edge{SourceID: b, TargetID: c, Type: graph.EdgeCalls, Confidence: 0.9})
		require.NoError(t, err)
		entries = append(entries, process.EntryCandidate{NodeID: a, Score: 1, CommunityID: a})
		communityOf[a], communityOf[b], communityOf[c] = a, a, a
	}

	cfg := process.DefaultConfig()
	cfg.MaxProcesses = 2
	traces := process.Detect(g, entries, communityOf, cfg, nil)
	assert.Len(t, traces, 2)
}
