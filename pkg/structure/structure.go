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

// Package structure materialises Folder and File nodes and the CONTAINS
// edges between them, from the flat list of indexed file paths.
package structure

import (
	"path"
	"sort"
	"strings"

	"github.com/kraklabs/graphkit/pkg/graph"
)

// Process adds a Folder node for every directory prefix of every path in
// filePaths, a File node for every path itself, and CONTAINS edges from
// each parent to its immediate child, with confidence 1.0. Shared
// ancestor folders are de-duplicated via Graph.AddNode's idempotency.
func Process(g *graph.Graph, filePaths []string) error {
	sorted := append([]string(nil), filePaths...)
	sort.Strings(sorted)

	for _, fp := range sorted {
		fp = strings.ReplaceAll(fp, "\\", "/")
		dirs := folderPrefixes(fp)

		var parentID string
		for i, dir := range dirs {
			folderID := graph.FolderNodeID(dir)
			g.AddNode(&graph.Node{
				ID:         folderID,
				Label:      graph.KindFolder,
				Properties: map[string]any{"filePath": dir, "name": path.Base(dir)},
			})
			if i > 0 {
				if _, err := g.AddRelationship(&graph.Edge{SourceID: parentID, TargetID: folderID, Type: graph.EdgeContains, Confidence: 1.0}); err != nil {
					return err
				}
			}
			parentID = folderID
		}

		fileID := graph.FileNodeID(fp)
		g.AddNode(&graph.Node{
			ID:         fileID,
			Label:      graph.KindFile,
			Properties: map[string]any{"filePath": fp, "name": path.Base(fp)},
		})
		if parentID != "" {
			if _, err := g.AddRelationship(&graph.Edge{SourceID: parentID, TargetID: fileID, Type: graph.EdgeContains, Confidence: 1.0}); err != nil {
				return err
			}
		}
	}
	return nil
}

// folderPrefixes returns every directory prefix of fp, shallowest first,
// excluding the root (".") and the file itself.
func folderPrefixes(fp string) []string {
	dir := path.Dir(fp)
	if dir == "." {
		return nil
	}
	parts := strings.Split(dir, "/")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[:i+1], "/"))
	}
	return out
}
