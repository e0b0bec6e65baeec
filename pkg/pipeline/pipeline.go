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

// Package pipeline drives one end-to-end ingestion run: walking a
// repository, parsing and extracting every supported source file,
// materialising the structural and symbol graph, resolving imports,
// calls and heritage, scoring entry points, and detecting communities
// and processes. It is the single place that owns write access to the
// graph for the duration of a run; extraction workers are stateless and
// hand back plain value records that the driver folds in sequentially.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	graphkiterrors "github.com/kraklabs/graphkit/internal/errors"
	"github.com/kraklabs/graphkit/pkg/callgraph"
	"github.com/kraklabs/graphkit/pkg/community"
	"github.com/kraklabs/graphkit/pkg/entrypoint"
	"github.com/kraklabs/graphkit/pkg/extract"
	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/heritage"
	"github.com/kraklabs/graphkit/pkg/lang"
	"github.com/kraklabs/graphkit/pkg/parse"
	"github.com/kraklabs/graphkit/pkg/process"
	"github.com/kraklabs/graphkit/pkg/resolve"
	"github.com/kraklabs/graphkit/pkg/storage"
	"github.com/kraklabs/graphkit/pkg/structure"
	"github.com/kraklabs/graphkit/pkg/symtab"
	"github.com/kraklabs/graphkit/pkg/walk"
)

// Stats summarises one completed run.
type Stats struct {
	FilesWalked         int
	FilesExtracted      int
	FilesSkipped        int
	FilesUnchanged      int
	FilesFailed         int
	DefinitionsAdded    int
	ImportsResolved     int
	CallsResolved       int
	HeritageResolved    int
	CommunitiesDetected int
	ProcessesDetected   int
	Duration            time.Duration
}

// Result is the outcome of a completed (or partially completed, for a
// file-level failure) ingestion run.
type Result struct {
	// RunID uniquely identifies this run, for correlating log lines and
	// progress events across a single invocation.
	RunID       string
	Graph       *graph.Graph
	FailedFiles []graphkiterrors.ParseFailure
	Stats       Stats
}

// fileSource is the reader Run uses to load a walked file's bytes. It is
// a field rather than a hardcoded os.ReadFile call so tests can supply
// an in-memory filesystem.
type fileSource func(relativePath string) ([]byte, error)

// Run executes one full ingestion pass against cfg.RootPath, reading
// file contents via readFile. Progress and cancellation are reported on
// cfg.Progress and checked cooperatively at phase boundaries and at
// least every progressTickInterval items within a long phase.
func Run(ctx context.Context, cfg Config, readFile fileSource) (*Result, error) {
	cfg = cfg.WithDefaults()
	pipelineMetrics.init()
	pipelineMetrics.runsTotal.Inc()

	start := time.Now()
	progress := cfg.Progress

	g := graph.New()
	runID := uuid.New().String()
	res := &Result{RunID: runID, Graph: g}
	cfg.Logger.Info("pipeline.run.start", "run_id", runID, "project_id", cfg.ProjectID, "root", cfg.RootPath)

	if err := checkCancelled(ctx); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, err
	}

	files, err := walk.Walk(cfg.RootPath)
	if err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, fmt.Errorf("pipeline: walk: %w", err)
	}
	res.Stats.FilesWalked = len(files)
	pipelineMetrics.filesWalked.Add(float64(len(files)))

	allPaths := make([]string, len(files))
	for i, f := range files {
		allPaths[i] = f.RelativePath
	}

	extracted, unchanged, err := extractAll(ctx, cfg, files, readFile, res, progress)
	if err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, err
	}

	progress.emit(PhaseStructure, 0, "")
	if err := structure.Process(g, allPaths); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, fmt.Errorf("pipeline: structure: %w", err)
	}
	progress.emit(PhaseStructure, 100, "")

	if err := checkCancelled(ctx); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, err
	}

	progress.emit(PhaseExtracting, 0, "")
	table := symtab.New()
	if err := seedFromCheckpoint(ctx, cfg, g, table, unchanged); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, fmt.Errorf("pipeline: seed checkpoint: %w", err)
	}
	if err := addDefinitions(g, table, extracted, res); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, fmt.Errorf("pipeline: definitions: %w", err)
	}

	resolveCtx := resolve.NewContext(allPaths)
	importMap := resolveImports(g, resolveCtx, extracted, res)

	if err := resolveCalls(g, table, importMap, extracted, res); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, fmt.Errorf("pipeline: calls: %w", err)
	}
	if err := resolveHeritage(g, table, extracted, res); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, fmt.Errorf("pipeline: heritage: %w", err)
	}
	scoreEntryPoints(g, extracted)
	progress.emit(PhaseExtracting, 100, "")

	if err := checkCancelled(ctx); err != nil {
		pipelineMetrics.runsFailed.Inc()
		return res, err
	}

	progress.emit(PhaseCommunities, 0, "")
	memberships := detectCommunities(g, res)
	progress.emit(PhaseCommunities, 100, "")

	progress.emit(PhaseProcesses, 0, "")
	detectProcesses(g, cfg.Process, memberships, res, progress)
	progress.emit(PhaseProcesses, 100, "")

	g.Finalize()

	if cfg.Storage != nil {
		if err := persist(ctx, cfg, g, res); err != nil {
			pipelineMetrics.runsFailed.Inc()
			return res, err
		}
	}

	res.Stats.Duration = time.Since(start)
	progress.emit(PhaseComplete, 100, "")
	cfg.Logger.Info("pipeline.run.complete", "run_id", runID,
		"files_walked", res.Stats.FilesWalked, "files_extracted", res.Stats.FilesExtracted,
		"calls_resolved", res.Stats.CallsResolved, "duration", res.Stats.Duration)
	return res, nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return graphkiterrors.NewCancelledError()
	default:
		return nil
	}
}

// extractedFile is one file's extraction outcome, carried from the
// parallel pool back to the single-threaded graph-building phase.
type extractedFile struct {
	path    string
	tag     lang.Tag
	content []byte
	result  extract.Result
}

// extractAll parses and extracts every walked file, skipping any whose
// checkpoint checksum is unchanged since the last run. It returns the
// extracted files plus the set of paths it skipped as unchanged, so the
// caller can reload their previously persisted symbols instead.
func extractAll(ctx context.Context, cfg Config, files []walk.File, readFile fileSource, res *Result, progress ProgressFunc) ([]extractedFile, map[string]bool, error) {
	progress.emit(PhaseParsing, 0, "")

	type slot struct {
		supported bool
		unchanged bool
		file      extractedFile
		failure   *graphkiterrors.ParseFailure
	}
	slots := make([]slot, len(files))

	host := parse.NewHost()
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.MaxWorkers)

	var processed int64
	total := len(files)

	for i, f := range files {
		i, f := i, f
		tag, ok := lang.Classify(f.RelativePath)
		if !ok {
			continue
		}
		slots[i].supported = true

		group.Go(func() error {
			defer func() {
				done := atomic.AddInt64(&processed, 1)
				if done%progressTickInterval == 0 {
					progress.emit(PhaseParsing, percentOf(int(done), total), f.RelativePath)
				}
			}()

			if err := checkCancelled(gctx); err != nil {
				return err
			}

			content, err := readFile(f.RelativePath)
			if err != nil {
				slots[i].failure = &graphkiterrors.ParseFailure{FilePath: f.RelativePath, Err: err}
				return nil
			}

			if cfg.Checkpoint != nil {
				changed, cerr := cfg.Checkpoint.Changed(f.RelativePath, content)
				if cerr == nil && !changed {
					slots[i].unchanged = true
					slots[i].file = extractedFile{path: f.RelativePath}
					return nil
				}
			}

			tree, err := host.Parse(gctx, tag, f.RelativePath, content)
			if err != nil {
				slots[i].failure = &graphkiterrors.ParseFailure{FilePath: f.RelativePath, Err: err}
				return nil
			}
			defer tree.Close()

			result := extract.File(tag, f.RelativePath, content, tree.RootNode())
			slots[i].file = extractedFile{path: f.RelativePath, tag: tag, content: content, result: result}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, fmt.Errorf("pipeline: extract: %w", err)
	}

	extracted := make([]extractedFile, 0, len(files))
	unchanged := make(map[string]bool)
	for _, s := range slots {
		switch {
		case s.failure != nil:
			res.FailedFiles = append(res.FailedFiles, *s.failure)
			res.Stats.FilesFailed++
			pipelineMetrics.filesFailed.Inc()
		case !s.supported:
			res.Stats.FilesSkipped++
			pipelineMetrics.filesSkipped.Inc()
		case s.unchanged:
			unchanged[s.file.path] = true
			res.Stats.FilesUnchanged++
			pipelineMetrics.filesUnchanged.Inc()
		default:
			extracted = append(extracted, s.file)
			res.Stats.FilesExtracted++
			pipelineMetrics.filesExtracted.Inc()

			if cfg.Checkpoint != nil {
				_ = cfg.Checkpoint.Record(s.file.path, s.file.content)
			}
		}
	}

	progress.emit(PhaseParsing, 100, "")
	return extracted, unchanged, nil
}

// addDefinitions registers every extracted definition in table and adds
// its Symbol node plus the owning File's CONTAINS and DEFINES edges
// (spec §3: CONTAINS covers structural ownership, DEFINES separately
// names the definition site — both run File -> Symbol). Before
// re-inserting a changed file's symbols it drops any stale nodes a
// checkpoint reload left under that path, then restores the File node
// RemoveNodesByFile also clears (a File's own "filePath" property is
// its own path).
func addDefinitions(g *graph.Graph, table *symtab.Table, extracted []extractedFile, res *Result) error {
	for _, ef := range extracted {
		g.RemoveNodesByFile(ef.path)
		if err := structure.Process(g, []string{ef.path}); err != nil {
			return err
		}

		fileID := graph.FileNodeID(ef.path)
		for _, def := range ef.result.Definitions {
			g.AddNode(&graph.Node{
				ID:    def.NodeID,
				Label: def.Kind,
				Properties: map[string]any{
					"name":       def.Name,
					"filePath":   def.FilePath,
					"startLine":  def.StartLine,
					"endLine":    def.EndLine,
					"isExported": def.IsExported,
					"language":   string(ef.tag),
				},
			})
			table.Add(def.FilePath, def.Name, def.NodeID, def.Kind)
			res.Stats.DefinitionsAdded++
			pipelineMetrics.definitionsAdded.Inc()

			_, _ = g.AddRelationship(&graph.Edge{SourceID: fileID, TargetID: def.NodeID, Type: graph.EdgeContains, Confidence: 1.0})
			_, _ = g.AddRelationship(&graph.Edge{SourceID: fileID, TargetID: def.NodeID, Type: graph.EdgeDefines, Confidence: 1.0, Reason: "definition-site"})
		}
	}
	return nil
}

// seedFromCheckpoint reloads the previously persisted symbols and
// relationships of files the checkpoint reports unchanged, so a second
// analyze run does not have to re-extract them to keep their part of
// the graph. It is a no-op without a checkpoint, without any unchanged
// files, or when the storage backend cannot be read back (a fresh
// store, or a Writer that doesn't also implement storage.Reader).
func seedFromCheckpoint(ctx context.Context, cfg Config, g *graph.Graph, table *symtab.Table, unchanged map[string]bool) error {
	if cfg.Checkpoint == nil || len(unchanged) == 0 {
		return nil
	}
	reader, ok := cfg.Storage.(storage.Reader)
	if !ok {
		return nil
	}

	for _, kind := range graph.SymbolKinds {
		rows, err := reader.ReadNodes(ctx, string(kind))
		if err != nil {
			return fmt.Errorf("seed nodes %s: %w", kind, err)
		}
		for _, row := range rows {
			filePath, _ := row["filePath"].(string)
			if !unchanged[filePath] {
				continue
			}
			id, _ := row["id"].(string)
			if id == "" {
				continue
			}

			props := coerceNodeProperties(row)
			g.AddNode(&graph.Node{ID: id, Label: kind, Properties: props})

			if name, _ := props["name"].(string); name != "" {
				table.Add(filePath, name, id, kind)
			}
		}
	}

	rels, err := reader.ReadRelationships(ctx)
	if err != nil {
		return fmt.Errorf("seed relationships: %w", err)
	}
	for _, r := range rels {
		edgeType := graph.EdgeType(r.Type)
		if edgeType == graph.EdgeMemberOf || edgeType == graph.EdgeStepInProcess {
			continue // recomputed fresh every run, never reloaded
		}
		if !isEdgeFromUnchangedFile(g, r.SourceID, unchanged) {
			continue
		}
		_, _ = g.AddRelationship(&graph.Edge{
			ID: r.ID, SourceID: r.SourceID, TargetID: r.TargetID,
			Type: edgeType, Confidence: r.Confidence, Reason: r.Reason, Step: r.Step,
		})
	}
	return nil
}

// isEdgeFromUnchangedFile reports whether the node sourceID belongs to a
// file the checkpoint reports unchanged. An edge whose target is a
// symbol in a file that changed this run (and hasn't been re-added yet)
// is dropped here, since AddRelationship refuses an edge with a missing
// endpoint; its source file must change again for the edge to return.
func isEdgeFromUnchangedFile(g *graph.Graph, sourceID string, unchanged map[string]bool) bool {
	n := g.GetNode(sourceID)
	if n == nil {
		return false
	}
	return unchanged[n.FilePath()]
}

// coerceNodeProperties converts the string-typed values a tabular Row
// round-trips back to the Go types the rest of the pipeline expects for
// the named properties it cares about; every other key passes through
// unchanged.
func coerceNodeProperties(row storage.Row) map[string]any {
	props := make(map[string]any, len(row))
	for k, v := range row {
		props[k] = v
	}
	delete(props, "id")
	delete(props, "label")

	if s, ok := props["startLine"].(string); ok {
		if n, err := strconv.Atoi(s); err == nil {
			props["startLine"] = n
		}
	}
	if s, ok := props["endLine"].(string); ok {
		if n, err := strconv.Atoi(s); err == nil {
			props["endLine"] = n
		}
	}
	if s, ok := props["isExported"].(string); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			props["isExported"] = b
		}
	}
	if s, ok := props["entryScore"].(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			props["entryScore"] = f
		}
	}
	return props
}

func resolveImports(g *graph.Graph, resolveCtx *resolve.Context, extracted []extractedFile, res *Result) *resolve.ImportMap {
	importMap := resolve.NewImportMap()
	for _, ef := range extracted {
		for _, spec := range ef.result.Imports {
			target, ok := resolveCtx.Resolve(ef.path, spec)
			if !ok {
				continue
			}
			importMap.Add(ef.path, target)

			sourceID, targetID := graph.FileNodeID(ef.path), graph.FileNodeID(target)
			if g.GetNode(sourceID) == nil || g.GetNode(targetID) == nil {
				continue
			}
			if _, err := g.AddRelationship(&graph.Edge{SourceID: sourceID, TargetID: targetID, Type: graph.EdgeImports, Confidence: 1.0}); err == nil {
				res.Stats.ImportsResolved++
				pipelineMetrics.importsResolved.Inc()
			}
		}
	}
	return importMap
}

func resolveCalls(g *graph.Graph, table *symtab.Table, importMap *resolve.ImportMap, extracted []extractedFile, res *Result) error {
	var calls []callgraph.Call
	for _, ef := range extracted {
		for _, c := range ef.result.Calls {
			calls = append(calls, callgraph.Call{FilePath: c.FilePath, CalledName: c.CalledName, SourceID: c.SourceID})
		}
	}

	before := g.RelationshipCount()
	if err := callgraph.Process(g, calls, table, importMap, nil); err != nil {
		return err
	}
	added := g.RelationshipCount() - before
	if added > 0 {
		res.Stats.CallsResolved += added
		pipelineMetrics.callsResolved.Add(float64(added))
	}
	return nil
}

var heritageKindOf = map[string]heritage.Kind{
	"extends":    heritage.KindExtends,
	"implements": heritage.KindImplements,
	"trait-impl": heritage.KindTraitImpl,
}

func resolveHeritage(g *graph.Graph, table *symtab.Table, extracted []extractedFile, res *Result) error {
	var records []heritage.Record
	for _, ef := range extracted {
		for _, h := range ef.result.Heritage {
			kind, ok := heritageKindOf[h.Kind]
			if !ok {
				kind = heritage.KindImplements
			}
			records = append(records, heritage.Record{FilePath: h.FilePath, ClassName: h.ClassName, ParentName: h.ParentName, Kind: kind})
		}
	}

	before := g.RelationshipCount()
	if err := heritage.Process(g, records, table); err != nil {
		return err
	}
	added := g.RelationshipCount() - before
	if added > 0 {
		res.Stats.HeritageResolved += added
		pipelineMetrics.heritageResolved.Add(float64(added))
	}
	return nil
}

// scoreEntryPoints computes an entry-point score for every definition
// and stores it as the "entryScore"/"entryReasons" node properties,
// deriving caller/callee counts from the CALLS edges just resolved.
func scoreEntryPoints(g *graph.Graph, extracted []extractedFile) {
	callerCount := make(map[string]int)
	calleeCount := make(map[string]int)
	for e := range g.IterRelationships() {
		if e.Type != graph.EdgeCalls {
			continue
		}
		calleeCount[e.SourceID]++
		callerCount[e.TargetID]++
	}

	for _, ef := range extracted {
		for _, def := range ef.result.Definitions {
			sym := entrypoint.Symbol{
				Name:        def.Name,
				Language:    string(ef.tag),
				IsExported:  def.IsExported,
				CallerCount: callerCount[def.NodeID],
				CalleeCount: calleeCount[def.NodeID],
				FilePath:    def.FilePath,
				ASTText:     def.Text,
			}
			result := entrypoint.Score(sym)

			n := g.GetNode(def.NodeID)
			if n == nil || n.Properties == nil {
				continue
			}
			n.Properties["entryScore"] = result.Score
			n.Properties["entryReasons"] = result.Reasons
		}
	}
}

func detectCommunities(g *graph.Graph, res *Result) map[string]string {
	scorer := func(nodeID string) float64 {
		n := g.GetNode(nodeID)
		if n == nil || n.Properties == nil {
			return 0
		}
		score, _ := n.Properties["entryScore"].(float64)
		return score
	}

	clusters, _ := community.Detect(g, scorer)
	_ = community.Materialize(g, clusters)
	res.Stats.CommunitiesDetected = len(clusters)
	pipelineMetrics.communitiesDetected.Add(float64(len(clusters)))

	memberOf := make(map[string]string)
	for n := range g.IterNodes() {
		if id, ok := g.CommunityOf(n.ID); ok {
			memberOf[n.ID] = id
		}
	}
	return memberOf
}

func detectProcesses(g *graph.Graph, cfg process.Config, memberOf map[string]string, res *Result, progress ProgressFunc) {
	var entries []process.EntryCandidate
	for n := range g.IterNodes() {
		if n.Properties == nil {
			continue
		}
		score, ok := n.Properties["entryScore"].(float64)
		if !ok || score <= 0 {
			continue
		}
		filePath := n.FilePath()
		if entrypoint.IsTestFile(filePath) {
			continue
		}
		entries = append(entries, process.EntryCandidate{NodeID: n.ID, Score: score, CommunityID: memberOf[n.ID], FilePath: filePath})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].NodeID < entries[j].NodeID })

	traces := process.Detect(g, entries, memberOf, cfg, func(message string, percent int) {
		progress.emit(PhaseProcesses, percent, message)
	})
	_ = process.Materialize(g, traces)
	res.Stats.ProcessesDetected = len(traces)
	pipelineMetrics.processesDetected.Add(float64(len(traces)))
}

func persist(ctx context.Context, cfg Config, g *graph.Graph, res *Result) error {
	byLabel := make(map[graph.NodeKind][]storage.Row)
	for n := range g.IterNodes() {
		row := storage.Row{"id": n.ID, "label": string(n.Label)}
		for k, v := range n.Properties {
			row[k] = v
		}
		byLabel[n.Label] = append(byLabel[n.Label], row)
	}
	for label, rows := range byLabel {
		if err := cfg.Storage.WriteNodes(ctx, string(label), rows); err != nil {
			return fmt.Errorf("pipeline: persist nodes %s: %w", label, err)
		}
	}

	var relRows []storage.RelationshipRow
	for e := range g.IterRelationships() {
		relRows = append(relRows, storage.RelationshipRow{
			ID: e.ID, SourceID: e.SourceID, TargetID: e.TargetID,
			Type: string(e.Type), Confidence: e.Confidence, Reason: e.Reason, Step: e.Step,
		})
	}
	if err := cfg.Storage.WriteRelationships(ctx, relRows); err != nil {
		return fmt.Errorf("pipeline: persist relationships: %w", err)
	}

	_ = res
	return nil
}
