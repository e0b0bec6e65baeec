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

package callgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/callgraph"
	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/resolve"
	"github.com/kraklabs/graphkit/pkg/symtab"
)

func newGraphWithFuncs(t *testing.T, ids ...string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range ids {
		g.AddNode(&graph.Node{ID: id, Label: graph.KindFunction})
	}
	return g
}

func TestResolveSameFilePriority(t *testing.T) {
	g := newGraphWithFuncs(t, "caller", "Function:a.go:helper:1", "Function:b.go:helper:1")
	tbl := symtab.New()
	tbl.Add("a.go", "helper", "Function:a.go:helper:1", graph.KindFunction)
	tbl.Add("b.go", "helper", "Function:b.go:helper:1", graph.KindFunction)
	imports := resolve.NewImportMap()
	imports.Add("a.go", "b.go")

	calls := []callgraph.Call{{FilePath: "a.go", CalledName: "helper", SourceID: "caller"}}
	require.NoError(t, callgraph.Process(g, calls, tbl, imports, nil))

	var edges []*graph.Edge
	for e := range g.IterRelationships() {
		edges = append(edges, e)
	}
	require.Len(t, edges, 1)
	assert.Equal(t, "Function:a.go:helper:1", edges[0].TargetID)
	assert.Equal(t, graph.ConfidenceSameFile, edges[0].Confidence)
	assert.Equal(t, graph.ReasonSameFile, edges[0].Reason)
}

func TestResolveImportResolved(t *testing.T) {
	g := newGraphWithFuncs(t, "caller", "Function:b.go:helper:1")
	tbl := symtab.New()
	tbl.Add("b.go", "helper", "Function:b.go:helper:1", graph.KindFunction)
	imports := resolve.NewImportMap()
	imports.Add("a.go", "b.go")

	calls := []callgraph.Call{{FilePath: "a.go", CalledName: "helper", SourceID: "caller"}}
	require.NoError(t, callgraph.Process(g, calls, tbl, imports, nil))

	var edges []*graph.Edge
	for e := range g.IterRelationships() {
		edges = append(edges, e)
	}
	require.Len(t, edges, 1)
	assert.Equal(t, graph.ConfidenceImportResolved, edges[0].Confidence)
	assert.Equal(t, graph.ReasonImportResolved, edges[0].Reason)
}

func TestResolveFuzzyUniqueVsAmbiguous(t *testing.T) {
	g := newGraphWithFuncs(t, "caller", "Function:x.go:helper:1", "Function:y.go:helper:1")
	tbl := symtab.New()
	tbl.Add("x.go", "helper", "Function:x.go:helper:1", graph.KindFunction)
	imports := resolve.NewImportMap()

	calls := []callgraph.Call{{FilePath: "a.go", CalledName: "helper", SourceID: "caller"}}
	require.NoError(t, callgraph.Process(g, calls, tbl, imports, nil))

	var edges []*graph.Edge
	for e := range g.IterRelationships() {
		edges = append(edges, e)
	}
	require.Len(t, edges, 1)
	assert.Equal(t, graph.ConfidenceFuzzyUnique, edges[0].Confidence)

	// Now make it ambiguous.
	g2 := newGraphWithFuncs(t, "caller2", "Function:x.go:helper:1", "Function:y.go:helper:1")
	tbl2 := symtab.New()
	tbl2.Add("x.go", "helper", "Function:x.go:helper:1", graph.KindFunction)
	tbl2.Add("y.go", "helper", "Function:y.go:helper:1", graph.KindFunction)
	calls2 := []callgraph.Call{{FilePath: "a.go", CalledName: "helper", SourceID: "caller2"}}
	require.NoError(t, callgraph.Process(g2, calls2, tbl2, resolve.NewImportMap(), nil))

	var edges2 []*graph.Edge
	for e := range g2.IterRelationships() {
		edges2 = append(edges2, e)
	}
	require.Len(t, edges2, 1)
	assert.Equal(t, graph.ConfidenceFuzzyAmbiguous, edges2[0].Confidence)
}

func TestUnresolvedCallDropped(t *testing.T) {
	g := newGraphWithFuncs(t, "caller")
	tbl := symtab.New()
	calls := []callgraph.Call{{FilePath: "a.go", CalledName: "ghost", SourceID: "caller"}}
	require.NoError(t, callgraph.Process(g, calls, tbl, resolve.NewImportMap(), nil))
	assert.Equal(t, 0, g.RelationshipCount())
}

func TestProgressReportsProcessedAndTotal(t *testing.T) {
	g := newGraphWithFuncs(t, "caller")
	tbl := symtab.New()
	calls := []callgraph.Call{{FilePath: "a.go", CalledName: "ghost", SourceID: "caller"}, {FilePath: "a.go", CalledName: "ghost2", SourceID: "caller"}}
	var seen [][2]int
	require.NoError(t, callgraph.Process(g, calls, tbl, resolve.NewImportMap(), func(processed, total int) {
		seen = append(seen, [2]int{processed, total})
	}))
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, seen)
}
