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

package pipeline

// Phase identifies a stage of the ingestion pipeline a progress event
// belongs to. Several internal processing steps are folded under one
// reported phase name: "parsing" covers the walk plus per-file
// tree-sitter parse/extract; "structure" covers folder/file
// materialisation; "extracting" covers symbol-table construction,
// import resolution, call/heritage resolution, and entry-point scoring
// (turning parsed records into graph edges).
type Phase string

const (
	PhaseParsing     Phase = "parsing"
	PhaseStructure   Phase = "structure"
	PhaseExtracting  Phase = "extracting"
	PhaseCommunities Phase = "communities"
	PhaseProcesses   Phase = "processes"
	PhaseComplete    Phase = "complete"
)

// ProgressEvent is one typed progress notification, per spec §6's
// "(phase, percent, detail?) -> void" callback contract.
type ProgressEvent struct {
	Phase   Phase
	Percent int
	Detail  string
}

// ProgressFunc receives progress events. It must not block: the driver
// calls it synchronously at phase boundaries and on every progress
// tick within long phases (spec §9's "driver-visible contract").
type ProgressFunc func(ProgressEvent)

// progressTickInterval is how often (in items processed) a long phase
// reports progress, per spec §9: "at least every ~500 items".
const progressTickInterval = 500

func (f ProgressFunc) emit(phase Phase, percent int, detail string) {
	if f == nil {
		return
	}
	f(ProgressEvent{Phase: phase, Percent: percent, Detail: detail})
}

func percentOf(done, total int) int {
	if total <= 0 {
		return 100
	}
	if done >= total {
		return 100
	}
	return done * 100 / total
}
