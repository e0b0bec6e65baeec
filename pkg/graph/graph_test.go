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

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/graph"
)

func TestAddNodeIdempotent(t *testing.T) {
	g := graph.New()
	n1 := &graph.Node{ID: "File:a.go", Label: graph.KindFile, Properties: map[string]any{"filePath": "a.go"}}
	n2 := &graph.Node{ID: "File:a.go", Label: graph.KindFile, Properties: map[string]any{"filePath": "a.go", "content": "changed"}}

	assert.True(t, g.AddNode(n1))
	assert.False(t, g.AddNode(n2))
	assert.Equal(t, 1, g.NodeCount())
	// First write wins.
	assert.Nil(t, g.GetNode("File:a.go").Properties["content"])
}

func TestAddRelationshipRequiresEndpoints(t *testing.T) {
	g := graph.New()
	_, err := g.AddRelationship(&graph.Edge{SourceID: "File:a.go", TargetID: "File:b.go", Type: graph.EdgeImports})
	require.Error(t, err)
}

func TestAddRelationshipIdempotent(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "File:a.go", Label: graph.KindFile})
	g.AddNode(&graph.Node{ID: "File:b.go", Label: graph.KindFile})

	e := &graph.Edge{SourceID: "File:a.go", TargetID: "File:b.go", Type: graph.EdgeImports, Confidence: 1.0}
	added, err := g.AddRelationship(e)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = g.AddRelationship(&graph.Edge{SourceID: "File:a.go", TargetID: "File:b.go", Type: graph.EdgeImports, Confidence: 1.0})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, g.RelationshipCount())
}

func TestMemberOfFunctional(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "Function:a.go:foo:1", Label: graph.KindFunction})
	g.AddNode(&graph.Node{ID: "Community:1", Label: graph.KindCommunity})
	g.AddNode(&graph.Node{ID: "Community:2", Label: graph.KindCommunity})

	_, err := g.AddRelationship(&graph.Edge{SourceID: "Function:a.go:foo:1", TargetID: "Community:1", Type: graph.EdgeMemberOf, Confidence: 1.0})
	require.NoError(t, err)

	_, err = g.AddRelationship(&graph.Edge{SourceID: "Function:a.go:foo:1", TargetID: "Community:2", Type: graph.EdgeMemberOf, Confidence: 1.0})
	assert.Error(t, err)
}

func TestRemoveNodesByFile(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "File:a.go", Label: graph.KindFile, Properties: map[string]any{"filePath": "a.go"}})
	g.AddNode(&graph.Node{ID: "Function:a.go:foo:1", Label: graph.KindFunction, Properties: map[string]any{"filePath": "a.go"}})
	g.AddNode(&graph.Node{ID: "File:b.go", Label: graph.KindFile, Properties: map[string]any{"filePath": "b.go"}})

	_, err := g.AddRelationship(&graph.Edge{SourceID: "File:a.go", TargetID: "Function:a.go:foo:1", Type: graph.EdgeDefines, Confidence: 1.0})
	require.NoError(t, err)

	removed := g.RemoveNodesByFile("a.go")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.RelationshipCount())
}

func TestInsertionOrderStable(t *testing.T) {
	g := graph.New()
	ids := []string{"File:c.go", "File:a.go", "File:b.go"}
	for _, id := range ids {
		g.AddNode(&graph.Node{ID: id, Label: graph.KindFile, Properties: map[string]any{"filePath": id}})
	}
	var got []string
	for n := range g.IterNodes() {
		got = append(got, n.ID)
	}
	assert.Equal(t, ids, got)
}
