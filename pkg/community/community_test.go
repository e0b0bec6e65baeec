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

package community_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/community"
	"github.com/kraklabs/graphkit/pkg/graph"
)

func addFunc(g *graph.Graph, id, name string) {
	g.AddNode(&graph.Node{ID: id, Label: graph.KindFunction, Properties: map[string]any{"name": name}})
}

func TestDetectSeparatesDisconnectedComponents(t *testing.T) {
	g := graph.New()
	addFunc(g, "a", "userCreate")
	addFunc(g, "b", "userDelete")
	addFunc(g, "c", "orderCreate")
	addFunc(g, "d", "orderCancel")
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.85})
	require.NoError(t, err)
	_, err = g.AddRelationship(&graph.Edge{SourceID: "c", TargetID: "d", Type: graph.EdgeCalls, Confidence: 0.85})
	require.NoError(t, err)

	clusters, memberships := community.Detect(g, nil)
	require.Len(t, clusters, 2)
	assert.NotEqual(t, memberships["a"], memberships["c"])
	assert.Equal(t, memberships["a"], memberships["b"])
}

func TestDetectAssignsPaletteColorByIndex(t *testing.T) {
	g := graph.New()
	addFunc(g, "a", "foo")
	addFunc(g, "b", "bar")
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.85})
	require.NoError(t, err)

	clusters, _ := community.Detect(g, nil)
	require.Len(t, clusters, 1)
	assert.Equal(t, community.Colors[0], clusters[0].Color)
}

func TestHeuristicLabelUsesCommonStem(t *testing.T) {
	g := graph.New()
	addFunc(g, "a", "userCreate")
	addFunc(g, "b", "userDelete")
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.85})
	require.NoError(t, err)

	clusters, _ := community.Detect(g, nil)
	require.Len(t, clusters, 1)
	assert.Equal(t, "user", clusters[0].HeuristicLabel)
}

func TestMaterializeAddsCommunityNodesAndMemberOfEdges(t *testing.T) {
	g := graph.New()
	addFunc(g, "a", "userCreate")
	addFunc(g, "b", "userDelete")
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.85})
	require.NoError(t, err)

	clusters, _ := community.Detect(g, nil)
	require.NoError(t, community.Materialize(g, clusters))

	community0 := g.GetNode("Community:0")
	require.NotNil(t, community0)
	commID, ok := g.CommunityOf("a")
	require.True(t, ok)
	assert.Equal(t, "Community:0", commID)
}

func TestCohesionIsOneForFullyIsolatedCluster(t *testing.T) {
	g := graph.New()
	addFunc(g, "a", "foo")
	addFunc(g, "b", "bar")
	_, err := g.AddRelationship(&graph.Edge{SourceID: "a", TargetID: "b", Type: graph.EdgeCalls, Confidence: 0.85})
	require.NoError(t, err)

	clusters, _ := community.Detect(g, nil)
	require.Len(t, clusters, 1)
	assert.Equal(t, 1.0, clusters[0].Cohesion)
}
