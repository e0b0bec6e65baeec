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

// Package extract walks a parsed source file's AST and emits the four
// record streams the rest of the pipeline consumes: definitions,
// imports, calls, and heritage. Workers are stateless: everything a
// worker needs travels in, and everything it produces travels out, as
// plain values.
package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/lang"
)

// Definition is one extracted declaration.
type Definition struct {
	Kind       graph.NodeKind
	Name       string
	FilePath   string
	StartLine  int
	EndLine    int
	IsExported bool
	Text       string
	NodeID     string
}

// Call is one extracted call site.
type Call struct {
	FilePath   string
	CalledName string
	SourceID   string
}

// Heritage is one extracted class/interface/trait relationship.
type Heritage struct {
	FilePath   string
	ClassName  string
	ParentName string
	Kind       string // "extends" | "implements" | "trait-impl"
}

// Result holds the four streams extracted from a single file, in stable
// definition order.
type Result struct {
	Definitions []Definition
	Imports     []string
	Calls       []Call
	Heritage    []Heritage
}

// File walks the AST rooted at root (source text src, language tag,
// repo-relative filePath) and returns the four extracted streams. An
// unrecognised language yields an empty Result with no error: spec §4.2
// already drops files whose extension is unknown before extraction is
// reached, but defence in depth costs nothing here.
func File(tag lang.Tag, filePath string, src []byte, root *sitter.Node) Result {
	spec, ok := specs[tag]
	if !ok {
		return Result{}
	}

	w := &walker{spec: spec, tag: tag, filePath: filePath, src: src}
	w.walk(root, nil)
	return Result{Definitions: w.definitions, Imports: w.imports, Calls: w.calls, Heritage: w.heritage}
}

type walker struct {
	spec     langSpec
	tag      lang.Tag
	filePath string
	src      []byte

	definitions []Definition
	imports     []string
	calls       []Call
	heritage    []Heritage
}

func (w *walker) walk(node *sitter.Node, enclosing *Definition) {
	if node == nil {
		return
	}

	nodeType := node.Type()
	current := enclosing

	if kind, ok := w.spec.definitions[nodeType]; ok {
		def := w.makeDefinition(node, kind)
		w.definitions = append(w.definitions, def)
		w.emitHeritage(node, def)
		current = &w.definitions[len(w.definitions)-1]
	} else if w.spec.imports[nodeType] {
		if spec := importSpecifier(node, w.src, w.tag); spec != "" {
			w.imports = append(w.imports, spec)
		}
	} else if w.spec.calls[nodeType] {
		if current != nil {
			if name := calleeName(node, w.src); name != "" {
				w.calls = append(w.calls, Call{FilePath: w.filePath, CalledName: name, SourceID: current.NodeID})
			}
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i), current)
	}
}

func (w *walker) makeDefinition(node *sitter.Node, kind graph.NodeKind) Definition {
	name := definitionName(node, w.src)
	start := int(node.StartPoint().Row) + 1
	end := int(node.EndPoint().Row) + 1
	id := graph.SymbolID(kind, w.filePath, name, start)

	return Definition{
		Kind:       kind,
		Name:       name,
		FilePath:   w.filePath,
		StartLine:  start,
		EndLine:    end,
		IsExported: w.spec.isExported(node, w.src),
		Text:       nodeText(node, w.src),
		NodeID:     id,
	}
}

func (w *walker) emitHeritage(node *sitter.Node, def Definition) {
	if !graph.IsClassLike(def.Kind) {
		return
	}

	// Rust's "impl Trait for Type { ... }" carries its heritage directly
	// on the impl_item node's own fields, not in a nested clause.
	if w.tag == lang.Rust && node.Type() == "impl_item" {
		traitNode := node.ChildByFieldName("trait")
		typeNode := node.ChildByFieldName("type")
		if traitNode != nil && typeNode != nil {
			w.heritage = append(w.heritage, Heritage{
				FilePath:   w.filePath,
				ClassName:  nodeText(typeNode, w.src),
				ParentName: nodeText(traitNode, w.src),
				Kind:       "trait-impl",
			})
		}
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !w.spec.heritage[child.Type()] {
			continue
		}
		for _, parent := range heritageParentNames(child, w.src, w.tag) {
			w.heritage = append(w.heritage, Heritage{
				FilePath:   w.filePath,
				ClassName:  def.Name,
				ParentName: parent,
				Kind:       heritageKind(w.tag, child.Type(), parent),
			})
		}
	}
}

// definitionName returns the text of the definition node's "name"
// field, falling back to the first identifier-like child.
func definitionName(node *sitter.Node, src []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return nodeText(nameNode, src)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier", "type_identifier", "field_identifier", "simple_identifier":
			return nodeText(child, src)
		}
	}
	return ""
}

func nodeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(src) {
		end = uint32(len(src))
	}
	if start >= end {
		return ""
	}
	return string(src[start:end])
}

// calleeName derives the called identifier from a call-expression-like
// node without depending on grammar-specific field names (which vary
// enough across the eleven supported languages that a single field
// table would be more fragile than this heuristic): take the node's own
// text up to its first '(', then the final dotted/arrow/scope segment
// of that prefix.
func calleeName(node *sitter.Node, src []byte) string {
	text := nodeText(node, src)
	paren := strings.IndexByte(text, '(')
	if paren < 0 {
		return ""
	}
	prefix := strings.TrimSpace(text[:paren])

	for _, sep := range []string{"::", "->", "."} {
		if idx := strings.LastIndex(prefix, sep); idx >= 0 {
			prefix = prefix[idx+len(sep):]
		}
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.ContainsAny(prefix, " \t\n(),") {
		return ""
	}
	return prefix
}

// heritageParentNames collects the identifier-like names inside a
// heritage clause node.
func heritageParentNames(node *sitter.Node, src []byte, tag lang.Tag) []string {
	var names []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "identifier", "type_identifier", "scoped_identifier", "simple_identifier", "qualified_name", "name":
			names = append(names, nodeText(n, src))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return dedupe(names)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// heritageKind maps a language's heritage node type to extends,
// implements, or the Rust-specific trait-impl.
func heritageKind(tag lang.Tag, nodeType, parentName string) string {
	if tag == lang.Rust && nodeType == "impl_item" {
		return "trait-impl"
	}
	switch nodeType {
	case "superclass", "base_class_clause", "class_heritage", "base_clause", "argument_list":
		return "extends"
	default:
		return "implements"
	}
}

// importSpecifier extracts the raw specifier text from an import node.
func importSpecifier(node *sitter.Node, src []byte, tag lang.Tag) string {
	if pathNode := node.ChildByFieldName("path"); pathNode != nil {
		return strings.Trim(nodeText(pathNode, src), `"'`)
	}
	text := nodeText(node, src)
	return strings.TrimSpace(text)
}
