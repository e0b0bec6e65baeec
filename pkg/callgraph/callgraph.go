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

// Package callgraph resolves extracted call sites into CALLS edges,
// applying the same-file / import-resolved / fuzzy-global priority order.
package callgraph

import (
	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/resolve"
	"github.com/kraklabs/graphkit/pkg/symtab"
)

// Call is one extracted call site.
type Call struct {
	FilePath   string
	CalledName string
	SourceID   string
}

// ProgressFunc is invoked after each call site is processed, reporting
// (processed, total).
type ProgressFunc func(processed, total int)

// Process resolves each call in calls to at most one CALLS edge and adds
// it to g. Unresolved calls are silently dropped, per spec §4.8.
func Process(g *graph.Graph, calls []Call, table *symtab.Table, imports *resolve.ImportMap, progress ProgressFunc) error {
	total := len(calls)
	for i, call := range calls {
		if target, confidence, reason, ok := resolveCall(call, table, imports); ok {
			if _, err := g.AddRelationship(&graph.Edge{
				SourceID:   call.SourceID,
				TargetID:   target,
				Type:       graph.EdgeCalls,
				Confidence: confidence,
				Reason:     reason,
			}); err != nil {
				return err
			}
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return nil
}

func resolveCall(call Call, table *symtab.Table, imports *resolve.ImportMap) (target string, confidence float64, reason string, ok bool) {
	if id, found := table.LookupExact(call.FilePath, call.CalledName); found {
		return id, graph.ConfidenceSameFile, graph.ReasonSameFile, true
	}

	for _, targetFile := range imports.Targets(call.FilePath) {
		if id, found := table.LookupExact(targetFile, call.CalledName); found {
			return id, graph.ConfidenceImportResolved, graph.ReasonImportResolved, true
		}
	}

	hits := table.LookupFuzzy(call.CalledName)
	if len(hits) > 0 {
		confidence := graph.ConfidenceFuzzyAmbiguous
		if len(hits) == 1 {
			confidence = graph.ConfidenceFuzzyUnique
		}
		return hits[0].NodeID, confidence, graph.ReasonFuzzyGlobal, true
	}

	return "", 0, "", false
}
