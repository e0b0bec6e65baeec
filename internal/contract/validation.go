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

// Package contract validates a finished graph against the invariants a
// correct ingestion run must uphold (P1-P6 of the pipeline's testable
// properties; P7 and P8 are API guarantees exercised directly by
// pkg/graph's own tests rather than checked here).
package contract

import (
	"fmt"
	"sort"

	"github.com/kraklabs/graphkit/pkg/graph"
)

// Violation is one failed invariant check.
type Violation struct {
	Property string
	Detail   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Property, v.Detail)
}

// ValidationResult collects every violation found in a single pass over
// the graph. OK reports whether the graph passed every check.
type ValidationResult struct {
	OK         bool
	Violations []Violation
}

var allowedCallConfidence = map[float64]bool{
	graph.ConfidenceSameFile:       true,
	graph.ConfidenceImportResolved: true,
	graph.ConfidenceFuzzyUnique:    true,
	graph.ConfidenceFuzzyAmbiguous: true,
}

var allowedCallReason = map[string]bool{
	graph.ReasonSameFile:       true,
	graph.ReasonImportResolved: true,
	graph.ReasonFuzzyGlobal:    true,
}

// Validate checks g against P1, P2, P3, P4, P5, and P6.
func Validate(g *graph.Graph) ValidationResult {
	var violations []Violation

	violations = append(violations, checkEdgeEndpointsExist(g)...)
	violations = append(violations, checkMemberOfFunctional(g)...)
	violations = append(violations, checkProcessSteps(g)...)
	violations = append(violations, checkProcessesAcyclic(g)...)
	violations = append(violations, checkCallConfidenceAndReason(g)...)
	violations = append(violations, checkContainsForest(g)...)

	return ValidationResult{OK: len(violations) == 0, Violations: violations}
}

// checkEdgeEndpointsExist validates P1: every edge's endpoints refer to
// nodes present in the graph. In practice graph.AddRelationship already
// rejects dangling endpoints at insertion time; this is a defence-in-
// depth check for graphs built or mutated outside that API (e.g. after
// deserialising persisted storage).
func checkEdgeEndpointsExist(g *graph.Graph) []Violation {
	var violations []Violation
	for e := range g.IterRelationships() {
		if g.GetNode(e.SourceID) == nil {
			violations = append(violations, Violation{"P1", fmt.Sprintf("edge %s: source %q does not exist", e.ID, e.SourceID)})
		}
		if g.GetNode(e.TargetID) == nil {
			violations = append(violations, Violation{"P1", fmt.Sprintf("edge %s: target %q does not exist", e.ID, e.TargetID)})
		}
	}
	return violations
}

// checkMemberOfFunctional validates P2: a symbol belongs to at most one
// community.
func checkMemberOfFunctional(g *graph.Graph) []Violation {
	seen := make(map[string]string)
	var violations []Violation
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeMemberOf {
			continue
		}
		if prior, ok := seen[e.SourceID]; ok && prior != e.TargetID {
			violations = append(violations, Violation{"P2", fmt.Sprintf("symbol %q is MEMBER_OF both %q and %q", e.SourceID, prior, e.TargetID)})
			continue
		}
		seen[e.SourceID] = e.TargetID
	}
	return violations
}

// checkProcessSteps validates P3: a Process node with stepCount k has
// STEP_IN_PROCESS steps {1..k}, each exactly once.
func checkProcessSteps(g *graph.Graph) []Violation {
	var violations []Violation
	stepsByProcess := make(map[string][]int)
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeStepInProcess {
			continue
		}
		stepsByProcess[e.SourceID] = append(stepsByProcess[e.SourceID], e.Step)
	}

	for n := range g.IterNodes() {
		if n.Label != graph.KindProcess {
			continue
		}
		k, _ := n.Properties["stepCount"].(int)
		steps := stepsByProcess[n.ID]
		sort.Ints(steps)
		if len(steps) != k {
			violations = append(violations, Violation{"P3", fmt.Sprintf("process %q declares stepCount=%d but has %d STEP_IN_PROCESS edges", n.ID, k, len(steps))})
			continue
		}
		for i, s := range steps {
			if s != i+1 {
				violations = append(violations, Violation{"P3", fmt.Sprintf("process %q step sequence is not {1..%d}: got %v", n.ID, k, steps)})
				break
			}
		}
	}
	return violations
}

// checkProcessesAcyclic validates P4: no process trace visits the same
// node twice.
func checkProcessesAcyclic(g *graph.Graph) []Violation {
	members := make(map[string][]string)
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeStepInProcess {
			continue
		}
		members[e.SourceID] = append(members[e.SourceID], e.TargetID)
	}

	var violations []Violation
	for processID, ids := range members {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				violations = append(violations, Violation{"P4", fmt.Sprintf("process %q visits node %q more than once", processID, id)})
				break
			}
			seen[id] = true
		}
	}
	return violations
}

// checkCallConfidenceAndReason validates P5: every CALLS edge carries
// one of the four defined confidence values and a recognised reason.
func checkCallConfidenceAndReason(g *graph.Graph) []Violation {
	var violations []Violation
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeCalls {
			continue
		}
		if !allowedCallConfidence[e.Confidence] {
			violations = append(violations, Violation{"P5", fmt.Sprintf("edge %s has unrecognised confidence %v", e.ID, e.Confidence)})
		}
		if !allowedCallReason[e.Reason] {
			violations = append(violations, Violation{"P5", fmt.Sprintf("edge %s has unrecognised reason %q", e.ID, e.Reason)})
		}
	}
	return violations
}

// checkContainsForest validates P6: CONTAINS edges between File/Folder
// nodes form a forest (each such node has at most one CONTAINS parent).
func checkContainsForest(g *graph.Graph) []Violation {
	parentOf := make(map[string]string)
	var violations []Violation
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeContains {
			continue
		}
		target := g.GetNode(e.TargetID)
		if target == nil || (target.Label != graph.KindFile && target.Label != graph.KindFolder) {
			continue
		}
		if prior, ok := parentOf[e.TargetID]; ok && prior != e.SourceID {
			violations = append(violations, Violation{"P6", fmt.Sprintf("node %q has more than one CONTAINS parent: %q and %q", e.TargetID, prior, e.SourceID)})
			continue
		}
		parentOf[e.TargetID] = e.SourceID
	}
	return violations
}
