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

package tools

import "github.com/kraklabs/graphkit/pkg/graph"

// SymbolRef is a lightweight, display-ready reference to a graph node.
type SymbolRef struct {
	ID       string
	Name     string
	FilePath string
	Kind     graph.NodeKind
}

func refOf(n *graph.Node) SymbolRef {
	return SymbolRef{ID: n.ID, Name: n.Name(), FilePath: n.FilePath(), Kind: n.Label}
}

// findSymbol resolves a user-supplied name to matching nodes, trying
// an exact name match first and falling back to a dotted suffix match
// so "Run" also finds "Agent.Run".
func findSymbol(g *graph.Graph, name string) []*graph.Node {
	var exact []*graph.Node
	var suffix []*graph.Node
	for n := range g.IterNodes() {
		nodeName := n.Name()
		if nodeName == "" {
			continue
		}
		if nodeName == name {
			exact = append(exact, n)
			continue
		}
		if len(nodeName) > len(name)+1 && nodeName[len(nodeName)-len(name)-1:] == "."+name {
			suffix = append(suffix, n)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return suffix
}
