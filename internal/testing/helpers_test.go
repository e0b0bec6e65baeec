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

package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/graph"
)

func TestSetupTestGraph(t *testing.T) {
	g := SetupTestGraph(t)
	require.NotNil(t, g)
	assert.Empty(t, QueryFunctions(t, g), "should start with no functions")
}

func TestInsertTestFunction(t *testing.T) {
	g := SetupTestGraph(t)

	id := InsertTestFunction(t, g, "HandleAuth", "auth.go", 10, 25, true)

	funcs := QueryFunctions(t, g)
	require.Len(t, funcs, 1)
	assert.Equal(t, id, funcs[0].ID)
	assert.Equal(t, "HandleAuth", funcs[0].Name())
}

func TestInsertTestFile(t *testing.T) {
	g := SetupTestGraph(t)

	id := InsertTestFile(t, g, "auth.go")

	files := QueryFiles(t, g)
	require.Len(t, files, 1)
	assert.Equal(t, id, files[0].ID)
	assert.Equal(t, "auth.go", files[0].FilePath())
}

func TestInsertTestType(t *testing.T) {
	g := SetupTestGraph(t)

	id := InsertTestType(t, g, graph.KindStruct, "UserService", "user.go", 10, 50)

	types := QueryTypes(t, g)
	require.Len(t, types, 1)
	assert.Equal(t, id, types[0].ID)
	assert.Equal(t, "UserService", types[0].Name())
	assert.Equal(t, graph.KindStruct, types[0].Label)
}

func TestMultipleInserts(t *testing.T) {
	g := SetupTestGraph(t)

	InsertTestFunction(t, g, "Main", "main.go", 5, 10, true)
	InsertTestFunction(t, g, "Helper", "util.go", 15, 20, false)
	InsertTestFunction(t, g, "Process", "processor.go", 25, 35, false)

	assert.Len(t, QueryFunctions(t, g), 3)
}

func TestEdgeInsertion(t *testing.T) {
	g := SetupTestGraph(t)

	fileID := InsertTestFile(t, g, "main.go")
	mainID := InsertTestFunction(t, g, "main", "main.go", 1, 10, true)
	helperID := InsertTestFunction(t, g, "helper", "main.go", 12, 15, false)

	InsertTestDefines(t, g, fileID, mainID)
	InsertTestCalls(t, g, mainID, helperID, graph.ConfidenceSameFile, graph.ReasonSameFile)

	assert.Equal(t, 2, g.RelationshipCount())
}

func TestGraphIsolationAcrossTests(t *testing.T) {
	g1 := SetupTestGraph(t)
	InsertTestFunction(t, g1, "Test1", "file1.go", 1, 10, false)

	g2 := SetupTestGraph(t)
	assert.Empty(t, QueryFunctions(t, g2), "a freshly created graph should be isolated from others")
	assert.Len(t, QueryFunctions(t, g1), 1)
}
