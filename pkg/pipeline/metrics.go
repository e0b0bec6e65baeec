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

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsPipeline holds the Prometheus metrics for the ingestion
// pipeline, registered once on first use.
type metricsPipeline struct {
	once sync.Once

	filesWalked    prometheus.Counter
	filesExtracted prometheus.Counter
	filesFailed    prometheus.Counter
	filesSkipped   prometheus.Counter
	filesUnchanged prometheus.Counter

	definitionsAdded prometheus.Counter
	callsResolved    prometheus.Counter
	heritageResolved prometheus.Counter
	importsResolved  prometheus.Counter

	communitiesDetected prometheus.Counter
	processesDetected   prometheus.Counter

	runsTotal    prometheus.Counter
	runsFailed   prometheus.Counter
	phaseSeconds *prometheus.HistogramVec
}

var pipelineMetrics metricsPipeline

func (m *metricsPipeline) init() {
	m.once.Do(func() {
		m.filesWalked = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_files_walked_total", Help: "Files discovered by the repository walk"})
		m.filesExtracted = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_files_extracted_total", Help: "Files successfully parsed and extracted"})
		m.filesFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_files_failed_total", Help: "Files dropped due to a parse failure"})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_files_skipped_total", Help: "Files skipped for an unsupported language"})
		m.filesUnchanged = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_files_unchanged_total", Help: "Files skipped because their checkpoint checksum is unchanged"})

		m.definitionsAdded = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_definitions_total", Help: "Symbol definitions added to the graph"})
		m.callsResolved = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_calls_resolved_total", Help: "Call sites resolved to a CALLS edge"})
		m.heritageResolved = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_heritage_resolved_total", Help: "Heritage records resolved to an EXTENDS/IMPLEMENTS edge"})
		m.importsResolved = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_imports_resolved_total", Help: "Import specifiers resolved to an IMPORTS edge"})

		m.communitiesDetected = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_communities_total", Help: "Communities materialized in the most recent run"})
		m.processesDetected = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_processes_total", Help: "Processes materialized in the most recent run"})

		m.runsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_runs_total", Help: "Ingestion runs started"})
		m.runsFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "graphkit_pipeline_runs_failed_total", Help: "Ingestion runs that returned an error"})

		m.phaseSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphkit_pipeline_phase_seconds",
			Help:    "Duration of each pipeline phase",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"phase"})

		prometheus.MustRegister(
			m.filesWalked, m.filesExtracted, m.filesFailed, m.filesSkipped, m.filesUnchanged,
			m.definitionsAdded, m.callsResolved, m.heritageResolved, m.importsResolved,
			m.communitiesDetected, m.processesDetected,
			m.runsTotal, m.runsFailed,
			m.phaseSeconds,
		)
	})
}
