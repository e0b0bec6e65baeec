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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/graphkit/internal/bootstrap"
	"github.com/kraklabs/graphkit/internal/contract"
	graphkiterrors "github.com/kraklabs/graphkit/internal/errors"
	"github.com/kraklabs/graphkit/internal/output"
	"github.com/kraklabs/graphkit/internal/ui"
	"github.com/kraklabs/graphkit/pkg/checkpoint"
	"github.com/kraklabs/graphkit/pkg/pipeline"
)

// analyzeResultJSON is the --json payload for a completed analyze run.
type analyzeResultJSON struct {
	RunID               string  `json:"run_id"`
	ProjectID           string  `json:"project_id"`
	FilesWalked         int     `json:"files_walked"`
	FilesExtracted      int     `json:"files_extracted"`
	FilesSkipped        int     `json:"files_skipped"`
	FilesUnchanged      int     `json:"files_unchanged"`
	FilesFailed         int     `json:"files_failed"`
	DefinitionsAdded    int     `json:"definitions_added"`
	ImportsResolved     int     `json:"imports_resolved"`
	CallsResolved       int     `json:"calls_resolved"`
	HeritageResolved    int     `json:"heritage_resolved"`
	CommunitiesDetected int     `json:"communities_detected"`
	ProcessesDetected   int     `json:"processes_detected"`
	NodeCount           int     `json:"node_count"`
	RelationshipCount   int     `json:"relationship_count"`
	DurationSeconds     float64 `json:"duration_seconds"`
	ContractViolations  int     `json:"contract_violations"`
}

func runAnalyze(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	full := fs.Bool("full", false, "Force a full re-analyze, ignoring the checkpoint")
	maxWorkers := fs.Int("workers", 0, "Parallel extraction workers (default: GOMAXPROCS)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: graphkit analyze [path] [options]

Builds (or refreshes) the typed code graph for a repository and
persists it under ~/.graphkit/data/<project_id>/.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(graphkiterrors.ExitInput)
	}

	repoPath := "."
	if fs.NArg() > 0 {
		repoPath = fs.Arg(0)
	}
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		graphkiterrors.FatalError(graphkiterrors.NewNotARepositoryError(repoPath), globals.JSON)
	}
	if info, statErr := os.Stat(absPath); statErr != nil || !info.IsDir() {
		graphkiterrors.FatalError(graphkiterrors.NewNotARepositoryError(repoPath), globals.JSON)
	}
	if !isRepository(absPath) {
		graphkiterrors.FatalError(graphkiterrors.NewNotARepositoryError(repoPath), globals.JSON)
	}

	var cfg *Config
	if globals.Config != "" {
		cfg, err = LoadConfig(globals.Config)
	} else {
		cfg, err = loadOrDefaultConfig(absPath)
	}
	if err != nil {
		graphkiterrors.FatalError(graphkiterrors.NewStorageUnavailableError("loading .graphkit/project.yaml", err), globals.JSON)
	}
	if *maxWorkers > 0 {
		cfg.MaxWorkers = *maxWorkers
	}

	projectCfg := bootstrap.ProjectConfig{ProjectID: cfg.ProjectID, DataDir: cfg.DataDir}
	if _, err := bootstrap.InitProject(projectCfg, nil); err != nil {
		graphkiterrors.FatalError(graphkiterrors.NewStorageUnavailableError("initializing project storage", err), globals.JSON)
	}
	backend, err := bootstrap.OpenProject(projectCfg, nil)
	if err != nil {
		graphkiterrors.FatalError(graphkiterrors.NewStorageUnavailableError("opening project storage", err), globals.JSON)
	}
	defer func() { _ = backend.Close() }()

	cpStore, err := checkpoint.Open(filepath.Join(backend.DataDir(), "checkpoint"))
	if err != nil {
		graphkiterrors.FatalError(graphkiterrors.NewStorageUnavailableError("opening checkpoint store", err), globals.JSON)
	}
	defer func() { _ = cpStore.Close() }()

	if !*full && !globals.Quiet {
		ui.Info("incremental analyze: unchanged files are skipped via checksum")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	progressCfg := NewProgressConfig(globals)
	reporter := newPhaseReporter(progressCfg)
	pipelineCfg := pipeline.Config{
		RootPath:   absPath,
		ProjectID:  cfg.ProjectID,
		MaxWorkers: cfg.MaxWorkers,
		Storage:    backend,
		Progress:   reporter.report,
	}
	if !*full {
		pipelineCfg.Checkpoint = cpStore
	}

	res, err := pipeline.Run(ctx, pipelineCfg, func(relPath string) ([]byte, error) {
		return os.ReadFile(filepath.Join(absPath, relPath)) //nolint:gosec // G304: relPath comes from walk.Walk under absPath
	})
	reporter.finish()
	if err != nil {
		graphkiterrors.FatalError(wrapRunError(err), globals.JSON)
	}

	violations := contract.Validate(res.Graph)
	printAnalyzeResult(cfg.ProjectID, res, violations, globals)
}

// phaseReporter drives one progress bar per pipeline phase, replacing
// the bar whenever the reported phase changes.
type phaseReporter struct {
	cfg  ProgressConfig
	bar  *progressbar.ProgressBar
	last pipeline.Phase
}

func newPhaseReporter(cfg ProgressConfig) *phaseReporter {
	return &phaseReporter{cfg: cfg}
}

func (r *phaseReporter) report(evt pipeline.ProgressEvent) {
	if r.bar == nil || r.last != evt.Phase {
		if r.bar != nil {
			_ = r.bar.Finish()
		}
		r.bar = NewProgressBar(r.cfg, 100, phaseDescription(string(evt.Phase)))
		r.last = evt.Phase
	}
	if r.bar != nil {
		_ = r.bar.Set(evt.Percent)
	}
}

func (r *phaseReporter) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func wrapRunError(err error) error {
	if _, ok := err.(*graphkiterrors.UserError); ok {
		return err
	}
	return graphkiterrors.NewStorageUnavailableError("pipeline run failed", err)
}

func loadOrDefaultConfig(repoPath string) (*Config, error) {
	path := ConfigPath(repoPath)
	if _, err := os.Stat(path); err == nil {
		return LoadConfig(path)
	}
	return DefaultConfig(filepath.Base(repoPath)), nil
}

func isRepository(path string) bool {
	dir := path
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info != nil {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}

func printAnalyzeResult(projectID string, res *pipeline.Result, violations contract.ValidationResult, globals GlobalFlags) {
	if globals.JSON {
		payload := analyzeResultJSON{
			RunID:               res.RunID,
			ProjectID:           projectID,
			FilesWalked:         res.Stats.FilesWalked,
			FilesExtracted:      res.Stats.FilesExtracted,
			FilesSkipped:        res.Stats.FilesSkipped,
			FilesUnchanged:      res.Stats.FilesUnchanged,
			FilesFailed:         res.Stats.FilesFailed,
			DefinitionsAdded:    res.Stats.DefinitionsAdded,
			ImportsResolved:     res.Stats.ImportsResolved,
			CallsResolved:       res.Stats.CallsResolved,
			HeritageResolved:    res.Stats.HeritageResolved,
			CommunitiesDetected: res.Stats.CommunitiesDetected,
			ProcessesDetected:   res.Stats.ProcessesDetected,
			NodeCount:           res.Graph.NodeCount(),
			RelationshipCount:   res.Graph.RelationshipCount(),
			DurationSeconds:     res.Stats.Duration.Seconds(),
			ContractViolations:  len(violations.Violations),
		}
		_ = output.JSON(payload)
		return
	}

	ui.Header("Analyze complete")
	fmt.Printf("Files walked:      %d\n", res.Stats.FilesWalked)
	fmt.Printf("Files extracted:   %d\n", res.Stats.FilesExtracted)
	fmt.Printf("Files skipped:     %d\n", res.Stats.FilesSkipped)
	fmt.Printf("Files unchanged:   %d\n", res.Stats.FilesUnchanged)
	fmt.Printf("Files failed:      %d\n", res.Stats.FilesFailed)
	fmt.Printf("Definitions added: %d\n", res.Stats.DefinitionsAdded)
	fmt.Printf("Imports resolved:  %d\n", res.Stats.ImportsResolved)
	fmt.Printf("Calls resolved:    %d\n", res.Stats.CallsResolved)
	fmt.Printf("Heritage resolved: %d\n", res.Stats.HeritageResolved)
	fmt.Printf("Communities:       %d\n", res.Stats.CommunitiesDetected)
	fmt.Printf("Processes:         %d\n", res.Stats.ProcessesDetected)
	fmt.Printf("Graph:             %d nodes, %d relationships\n", res.Graph.NodeCount(), res.Graph.RelationshipCount())
	fmt.Printf("Duration:          %s\n", res.Stats.Duration)

	if len(res.FailedFiles) > 0 {
		ui.Warning(fmt.Sprintf("%d file(s) failed to parse", len(res.FailedFiles)))
	}
	if !violations.OK {
		ui.Error(fmt.Sprintf("%d graph invariant violation(s) detected", len(violations.Violations)))
		for _, v := range violations.Violations {
			fmt.Printf("  - %s\n", v.String())
		}
	} else {
		ui.Success("graph invariants hold")
	}
}
