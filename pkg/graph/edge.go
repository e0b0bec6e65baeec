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

package graph

import "fmt"

// EdgeType discriminates the relationship an Edge represents.
type EdgeType string

const (
	EdgeContains      EdgeType = "CONTAINS"
	EdgeDefines       EdgeType = "DEFINES"
	EdgeImports       EdgeType = "IMPORTS"
	EdgeCalls         EdgeType = "CALLS"
	EdgeExtends       EdgeType = "EXTENDS"
	EdgeImplements    EdgeType = "IMPLEMENTS"
	EdgeMemberOf      EdgeType = "MEMBER_OF"
	EdgeStepInProcess EdgeType = "STEP_IN_PROCESS"
)

// Call-resolution confidences and reasons (spec §4.8, §8 P5).
const (
	ConfidenceSameFile       = 0.85
	ConfidenceImportResolved = 0.90
	ConfidenceFuzzyUnique    = 0.50
	ConfidenceFuzzyAmbiguous = 0.30

	ReasonSameFile       = "same-file"
	ReasonImportResolved = "import-resolved"
	ReasonFuzzyGlobal    = "fuzzy-global"
	ReasonTraitImpl      = "trait-impl"
)

// Edge is a single directed relationship between two nodes.
type Edge struct {
	ID         string
	SourceID   string
	TargetID   string
	Type       EdgeType
	Confidence float64
	Reason     string
	// Step is the STEP_IN_PROCESS position (1-indexed). Zero for all
	// other edge types.
	Step int
}

// EdgeID computes the deterministic id for an edge from its endpoints and
// type, per spec §3 ("edge ids derive from (sourceId,type,targetId)").
func EdgeID(sourceID string, t EdgeType, targetID string) string {
	return fmt.Sprintf("%s-%s-%s", sourceID, t, targetID)
}
