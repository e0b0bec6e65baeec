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

package tools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/tools"
)

func TestImpactFindsTransitiveCallers(t *testing.T) {
	g := buildChain(t)

	result := tools.Impact(g, tools.ImpactArgs{Symbol: "helper"})
	require.Equal(t, "helper", result.Symbol.Name)

	var names []string
	for _, c := range result.Callers {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"run", "main"}, names)
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, result.AffectedFiles)
}

func TestImpactRespectsMaxDepth(t *testing.T) {
	g := buildChain(t)

	result := tools.Impact(g, tools.ImpactArgs{Symbol: "helper", MaxDepth: 1})
	require.Len(t, result.Callers, 1)
	assert.Equal(t, "run", result.Callers[0].Name)
}

func TestImpactIncludesImplementers(t *testing.T) {
	g := graph.New()
	ifaceID := graph.SymbolID(graph.KindInterface, "iface.go", "Runner", 1)
	implID := graph.SymbolID(graph.KindStruct, "impl.go", "Job", 1)
	g.AddNode(&graph.Node{ID: ifaceID, Label: graph.KindInterface, Properties: map[string]any{"name": "Runner", "filePath": "iface.go"}})
	g.AddNode(&graph.Node{ID: implID, Label: graph.KindStruct, Properties: map[string]any{"name": "Job", "filePath": "impl.go"}})
	_, err := g.AddRelationship(&graph.Edge{SourceID: implID, TargetID: ifaceID, Type: graph.EdgeImplements, Confidence: 1.0})
	require.NoError(t, err)

	result := tools.Impact(g, tools.ImpactArgs{Symbol: "Runner"})
	require.Len(t, result.Implementers, 1)
	assert.Equal(t, "Job", result.Implementers[0].Name)
}

func TestImpactOnUnknownSymbolIsEmpty(t *testing.T) {
	g := buildChain(t)
	result := tools.Impact(g, tools.ImpactArgs{Symbol: "doesNotExist"})
	assert.Equal(t, tools.ImpactResult{}, result)
}
