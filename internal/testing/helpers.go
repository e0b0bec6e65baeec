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

	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/storage/tabular"
)

// SetupTestGraph returns an empty graph for seeding in a test.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    g := testing.SetupTestGraph(t)
//	    testing.InsertTestFunction(t, g, "TestFunc", "test.go", 10, 20, true)
//	    // Run your tests...
//	}
func SetupTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.New()
}

// SetupTestBackend creates a tabular storage backend rooted at a fresh
// temporary directory. The backend's lock file is released automatically
// when the test finishes.
func SetupTestBackend(t *testing.T) *tabular.Backend {
	t.Helper()

	backend, err := tabular.Open(tabular.Config{DataDir: t.TempDir(), ProjectID: "test"})
	if err != nil {
		t.Fatalf("failed to create test backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

// InsertTestFile adds a File node to g.
//
// Example:
//
//	g := testing.SetupTestGraph(t)
//	testing.InsertTestFile(t, g, "auth.go")
func InsertTestFile(t *testing.T, g *graph.Graph, path string) string {
	t.Helper()
	id := graph.FileNodeID(path)
	g.AddNode(&graph.Node{ID: id, Label: graph.KindFile, Properties: map[string]any{"filePath": path}})
	return id
}

// InsertTestFunction adds a Function node to g, optionally exported,
// and returns its node id.
//
// Example:
//
//	g := testing.SetupTestGraph(t)
//	id := testing.InsertTestFunction(t, g, "HandleAuth", "auth.go", 10, 25, true)
func InsertTestFunction(t *testing.T, g *graph.Graph, name, filePath string, startLine, endLine int, exported bool) string {
	t.Helper()
	id := graph.SymbolID(graph.KindFunction, filePath, name, startLine)
	g.AddNode(&graph.Node{ID: id, Label: graph.KindFunction, Properties: map[string]any{
		"name": name, "filePath": filePath, "startLine": startLine, "endLine": endLine, "isExported": exported,
	}})
	return id
}

// InsertTestType adds a class-like node (struct/interface/class) to g
// and returns its node id.
//
// Example:
//
//	id := testing.InsertTestType(t, g, graph.KindStruct, "UserService", "user.go", 10, 50)
func InsertTestType(t *testing.T, g *graph.Graph, kind graph.NodeKind, name, filePath string, startLine, endLine int) string {
	t.Helper()
	id := graph.SymbolID(kind, filePath, name, startLine)
	g.AddNode(&graph.Node{ID: id, Label: kind, Properties: map[string]any{
		"name": name, "filePath": filePath, "startLine": startLine, "endLine": endLine,
	}})
	return id
}

// InsertTestDefines adds a DEFINES edge from a File node to a symbol
// node.
//
// Example:
//
//	testing.InsertTestDefines(t, g, fileID, funcID)
func InsertTestDefines(t *testing.T, g *graph.Graph, fileID, symbolID string) {
	t.Helper()
	_, err := g.AddRelationship(&graph.Edge{SourceID: fileID, TargetID: symbolID, Type: graph.EdgeDefines, Confidence: 1.0, Reason: "definition-site"})
	if err != nil {
		t.Fatalf("failed to insert DEFINES edge: %v", err)
	}
}

// InsertTestCalls adds a CALLS edge between two symbol nodes with the
// given confidence and reason.
//
// Example:
//
//	testing.InsertTestCalls(t, g, callerID, calleeID, graph.ConfidenceSameFile, graph.ReasonSameFile)
func InsertTestCalls(t *testing.T, g *graph.Graph, callerID, calleeID string, confidence float64, reason string) {
	t.Helper()
	_, err := g.AddRelationship(&graph.Edge{SourceID: callerID, TargetID: calleeID, Type: graph.EdgeCalls, Confidence: confidence, Reason: reason})
	if err != nil {
		t.Fatalf("failed to insert CALLS edge: %v", err)
	}
}

// InsertTestImport adds an IMPORTS edge between two File nodes.
//
// Example:
//
//	testing.InsertTestImport(t, g, "auth.go", "util.go")
func InsertTestImport(t *testing.T, g *graph.Graph, fromFile, toFile string) {
	t.Helper()
	_, err := g.AddRelationship(&graph.Edge{SourceID: graph.FileNodeID(fromFile), TargetID: graph.FileNodeID(toFile), Type: graph.EdgeImports, Confidence: 1.0})
	if err != nil {
		t.Fatalf("failed to insert IMPORTS edge: %v", err)
	}
}

// QueryFunctions returns every Function node currently in g.
//
// Example:
//
//	funcs := testing.QueryFunctions(t, g)
//	require.Len(t, funcs, 2)
func QueryFunctions(t *testing.T, g *graph.Graph) []*graph.Node {
	t.Helper()
	var out []*graph.Node
	for n := range g.IterNodes() {
		if n.Label == graph.KindFunction {
			out = append(out, n)
		}
	}
	return out
}

// QueryFiles returns every File node currently in g.
func QueryFiles(t *testing.T, g *graph.Graph) []*graph.Node {
	t.Helper()
	var out []*graph.Node
	for n := range g.IterNodes() {
		if n.Label == graph.KindFile {
			out = append(out, n)
		}
	}
	return out
}

// QueryTypes returns every class-like node currently in g.
func QueryTypes(t *testing.T, g *graph.Graph) []*graph.Node {
	t.Helper()
	var out []*graph.Node
	for n := range g.IterNodes() {
		if graph.IsClassLike(n.Label) {
			out = append(out, n)
		}
	}
	return out
}
