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

// Package parse owns the tree-sitter grammars and per-file parsing used
// by the extraction stage: a Host lazily loads and caches one grammar per
// language, and ASTCache is an in-memory bounded LRU of parsed trees
// keyed by file path. The cache lives only as long as the process.
package parse

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/kraklabs/graphkit/pkg/lang"
)

// grammarLoaders returns the sitter.Language for every language the host
// can eagerly resolve. Swift has no grammar bundled with go-tree-sitter
// and is therefore absent here, matching spec §4.2's "optional, may be
// absent at runtime" note: Classify still tags .swift files, but Parse
// reports ErrUnsupportedLanguage for them.
var grammarLoaders = map[lang.Tag]func() *sitter.Language{
	lang.Go:         golang.GetLanguage,
	lang.JavaScript: javascript.GetLanguage,
	lang.Python:     python.GetLanguage,
	lang.Java:       java.GetLanguage,
	lang.C:          c.GetLanguage,
	lang.CPP:        cpp.GetLanguage,
	lang.CSharp:     csharp.GetLanguage,
	lang.Rust:       rust.GetLanguage,
	lang.PHP:        php.GetLanguage,
	lang.Kotlin:     kotlin.GetLanguage,
}

// ErrUnsupportedLanguage is returned by Parse when the host has no
// grammar for the requested language (spec §7 UnsupportedLanguage).
type ErrUnsupportedLanguage struct {
	Tag lang.Tag
}

func (e *ErrUnsupportedLanguage) Error() string {
	return fmt.Sprintf("parse: no grammar available for language %q", e.Tag)
}

// Host owns long-lived grammar instances, lazily loaded on first use
// and reused for every subsequent file of that language.
type Host struct {
	mu       sync.Mutex
	grammars map[lang.Tag]*sitter.Language
}

// NewHost creates an empty Host; grammars are loaded on demand.
func NewHost() *Host {
	return &Host{grammars: make(map[lang.Tag]*sitter.Language)}
}

// grammarFor returns the grammar for tag, loading it if this is the
// first request. filePath disambiguates the TypeScript/TSX flavour.
func (h *Host) grammarFor(tag lang.Tag, filePath string) (*sitter.Language, error) {
	if tag == lang.TypeScript {
		h.mu.Lock()
		defer h.mu.Unlock()
		key := lang.Tag("typescript")
		if strings.HasSuffix(strings.ToLower(filePath), ".tsx") {
			key = "typescript-tsx"
		}
		if g, ok := h.grammars[key]; ok {
			return g, nil
		}
		var g *sitter.Language
		if key == "typescript-tsx" {
			g = tsx.GetLanguage()
		} else {
			g = typescript.GetLanguage()
		}
		h.grammars[key] = g
		return g, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.grammars[tag]; ok {
		return g, nil
	}
	loader, ok := grammarLoaders[tag]
	if !ok {
		return nil, &ErrUnsupportedLanguage{Tag: tag}
	}
	g := loader()
	h.grammars[tag] = g
	return g, nil
}

// Parse parses source as the given language and returns the resulting
// tree. The caller owns the returned tree and must call tree.Close()
// (or route it through an AST cache, which releases evicted trees
// itself). Per spec §4.3, each call uses an isolated *sitter.Parser so
// concurrent workers never share parser state.
func (h *Host) Parse(ctx context.Context, tag lang.Tag, filePath string, source []byte) (*sitter.Tree, error) {
	grammar, err := h.grammarFor(tag, filePath)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return tree, nil
}

// CountErrors returns the number of ERROR nodes in tree, used to decide
// whether a syntax-error warning should be logged (spec §4.3/§7
// ParseFailure path: tree-sitter is error-tolerant, so a non-zero count
// is a warning, not necessarily a dropped file).
func CountErrors(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.IsError() {
		count++
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += CountErrors(node.Child(i))
	}
	return count
}
