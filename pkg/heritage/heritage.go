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

// Package heritage resolves extracted class/interface/trait relationships
// into EXTENDS and IMPLEMENTS edges.
package heritage

import (
	"fmt"

	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/symtab"
)

// Kind discriminates the three heritage record shapes the extraction
// stage emits.
type Kind string

const (
	KindExtends    Kind = "extends"
	KindImplements Kind = "implements"
	KindTraitImpl  Kind = "trait-impl"
)

// Record is one extracted heritage relationship.
type Record struct {
	FilePath   string
	ClassName  string
	ParentName string
	Kind       Kind
}

// Process resolves each record against table and adds the corresponding
// EXTENDS/IMPLEMENTS edge to g. Unresolved names are synthesised a
// deterministic id rather than dropped. Self-inheritance is skipped.
func Process(g *graph.Graph, records []Record, table *symtab.Table) error {
	for _, r := range records {
		sourceID := resolveOrSynthesize(table, graph.KindClass, r.FilePath, r.ClassName)
		targetID := resolveOrSynthesize(table, graph.KindClass, r.FilePath, r.ParentName)

		if sourceID == targetID {
			continue
		}

		g.AddNode(&graph.Node{ID: sourceID, Label: graph.KindClass, Properties: map[string]any{"filePath": r.FilePath, "name": r.ClassName}})
		g.AddNode(&graph.Node{ID: targetID, Label: graph.KindClass, Properties: map[string]any{"filePath": r.FilePath, "name": r.ParentName}})

		edgeType := graph.EdgeImplements
		reason := ""
		switch r.Kind {
		case KindExtends:
			edgeType = graph.EdgeExtends
		case KindTraitImpl:
			edgeType = graph.EdgeImplements
			reason = graph.ReasonTraitImpl
		}

		if _, err := g.AddRelationship(&graph.Edge{
			SourceID:   sourceID,
			TargetID:   targetID,
			Type:       edgeType,
			Confidence: 1.0,
			Reason:     reason,
		}); err != nil {
			return err
		}
	}
	return nil
}

func resolveOrSynthesize(table *symtab.Table, kind graph.NodeKind, filePath, name string) string {
	hits := table.LookupFuzzy(name)
	if len(hits) > 0 {
		return hits[0].NodeID
	}
	return fmt.Sprintf("%s:%s:%s", kind, filePath, name)
}
