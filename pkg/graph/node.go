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

// Package graph provides the in-memory typed knowledge graph used by the
// ingestion pipeline: nodes (files, folders, code symbols, communities,
// processes), edges (CONTAINS, DEFINES, IMPORTS, CALLS, EXTENDS,
// IMPLEMENTS, MEMBER_OF, STEP_IN_PROCESS), and insertion-ordered iteration.
//
// The graph is single-owner: it is built by one driver goroutine during
// ingestion and is read-only from the moment it is finalised. Extraction
// workers never touch it directly; they hand back plain value records that
// the driver folds into the graph.
package graph

import "fmt"

// NodeKind discriminates the kind of entity a Node represents.
type NodeKind string

// Structural node kinds.
const (
	KindFile   NodeKind = "File"
	KindFolder NodeKind = "Folder"
)

// Code-symbol node kinds. CodeElement is the catch-all used when a
// language-specific extractor cannot name a more precise kind.
const (
	KindFunction    NodeKind = "Function"
	KindMethod      NodeKind = "Method"
	KindClass       NodeKind = "Class"
	KindInterface   NodeKind = "Interface"
	KindCodeElement NodeKind = "CodeElement"
	KindStruct      NodeKind = "Struct"
	KindEnum        NodeKind = "Enum"
	KindMacro       NodeKind = "Macro"
	KindTypedef     NodeKind = "Typedef"
	KindUnion       NodeKind = "Union"
	KindNamespace   NodeKind = "Namespace"
	KindTrait       NodeKind = "Trait"
	KindImpl        NodeKind = "Impl"
	KindTypeAlias   NodeKind = "TypeAlias"
	KindConst       NodeKind = "Const"
	KindStatic      NodeKind = "Static"
	KindProperty    NodeKind = "Property"
	KindRecord      NodeKind = "Record"
	KindDelegate    NodeKind = "Delegate"
	KindAnnotation  NodeKind = "Annotation"
	KindConstructor NodeKind = "Constructor"
	KindTemplate    NodeKind = "Template"
	KindModule      NodeKind = "Module"
)

// Derived node kinds, introduced by the Community and Process processors.
const (
	KindCommunity NodeKind = "Community"
	KindProcess   NodeKind = "Process"
)

// SymbolKinds lists every code-symbol kind a language extractor can
// produce, in declaration order. It excludes the structural kinds (File,
// Folder) and the derived kinds (Community, Process), which are rebuilt
// by their own processors rather than reloaded from a checkpoint.
var SymbolKinds = []NodeKind{
	KindFunction, KindMethod, KindClass, KindInterface, KindCodeElement,
	KindStruct, KindEnum, KindMacro, KindTypedef, KindUnion, KindNamespace,
	KindTrait, KindImpl, KindTypeAlias, KindConst, KindStatic, KindProperty,
	KindRecord, KindDelegate, KindAnnotation, KindConstructor, KindTemplate,
	KindModule,
}

// classLikeKinds holds the symbol kinds that can participate in EXTENDS /
// IMPLEMENTS edges (the heritage processor's "Class-like" category).
var classLikeKinds = map[NodeKind]bool{
	KindClass:     true,
	KindStruct:    true,
	KindInterface: true,
	KindTrait:     true,
	KindImpl:      true,
	KindRecord:    true,
}

// IsClassLike reports whether kind may appear as the source of an EXTENDS
// or IMPLEMENTS edge.
func IsClassLike(kind NodeKind) bool {
	return classLikeKinds[kind]
}

// Node is a single entity in the knowledge graph. Every node carries a
// unique, stable id, a label (kind), and a free-form properties bag whose
// keys are defined per-label (see spec §3).
type Node struct {
	ID         string
	Label      NodeKind
	Properties map[string]any
}

// FilePath returns the node's "filePath" property, if present.
func (n *Node) FilePath() string {
	if n == nil || n.Properties == nil {
		return ""
	}
	fp, _ := n.Properties["filePath"].(string)
	return fp
}

// Name returns the node's "name" property, if present.
func (n *Node) Name() string {
	if n == nil || n.Properties == nil {
		return ""
	}
	name, _ := n.Properties["name"].(string)
	return name
}

// FileNodeID returns the canonical node id for a repo-relative file path.
func FileNodeID(filePath string) string {
	return fmt.Sprintf("File:%s", filePath)
}

// FolderNodeID returns the canonical node id for a repo-relative folder path.
func FolderNodeID(folderPath string) string {
	return fmt.Sprintf("Folder:%s", folderPath)
}

// SymbolID builds the deterministic id for a code symbol from its kind,
// file-relative path, name, and (to disambiguate overloads in the same
// file) its start line.
func SymbolID(kind NodeKind, filePath, name string, startLine int) string {
	return fmt.Sprintf("%s:%s:%s:%d", kind, filePath, name, startLine)
}
