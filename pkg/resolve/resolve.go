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

// Package resolve turns raw import specifiers emitted by the extraction
// stage into concrete target files, building the ImportMap the call
// processor walks when resolving cross-file calls.
package resolve

import (
	"path"
	"strings"
)

// candidateExtensions are probed, in order, when a joined relative-import
// path has no extension of its own.
var candidateExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".py", ".go", ".rs"}

// Context is the immutable resolution context built once from the full
// set of indexed file paths.
type Context struct {
	allFilePaths map[string]struct{}
	suffixIndex  map[string]string
	resolveCache map[cacheKey]string
}

type cacheKey struct {
	fromFile  string
	specifier string
}

// NewContext builds a Context from the repo-relative paths of every
// indexed file.
func NewContext(filePaths []string) *Context {
	c := &Context{
		allFilePaths: make(map[string]struct{}, len(filePaths)),
		suffixIndex:  make(map[string]string),
		resolveCache: make(map[cacheKey]string),
	}
	for _, f := range filePaths {
		f = filepathToSlash(f)
		c.allFilePaths[f] = struct{}{}
		for _, suffix := range suffixesOf(f) {
			if _, exists := c.suffixIndex[suffix]; !exists {
				c.suffixIndex[suffix] = f
			}
		}
	}
	return c
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// suffixesOf returns every path suffix of f, from the full path down to
// the basename, split on "/".
func suffixesOf(f string) []string {
	parts := strings.Split(f, "/")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[i:], "/"))
	}
	return out
}

// Resolve maps specifier, referenced from fromFile, to a target file
// path. Returns ("", false) if unresolved. Results are memoised.
func (c *Context) Resolve(fromFile, specifier string) (string, bool) {
	key := cacheKey{fromFile, specifier}
	if cached, ok := c.resolveCache[key]; ok {
		if cached == "" {
			return "", false
		}
		return cached, true
	}

	target, ok := c.resolveUncached(fromFile, specifier)
	if ok {
		c.resolveCache[key] = target
	} else {
		c.resolveCache[key] = ""
	}
	return target, ok
}

func (c *Context) resolveUncached(fromFile, specifier string) (string, bool) {
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		dir := path.Dir(filepathToSlash(fromFile))
		joined := path.Join(dir, specifier)

		if _, ok := c.allFilePaths[joined]; ok {
			return joined, true
		}
		for _, ext := range candidateExtensions {
			withExt := joined + ext
			if _, ok := c.allFilePaths[withExt]; ok {
				return withExt, true
			}
		}
	}

	if target, ok := c.lookupSuffix(specifier); ok {
		return target, true
	}

	return "", false
}

func (c *Context) lookupSuffix(specifier string) (string, bool) {
	specifier = strings.TrimPrefix(specifier, "./")
	if target, ok := c.suffixIndex[specifier]; ok {
		return target, true
	}
	for _, ext := range candidateExtensions {
		if target, ok := c.suffixIndex[specifier+ext]; ok {
			return target, true
		}
	}
	return "", false
}

// ImportMap is fromFile -> set of resolved target files, in first-seen
// order (used by the call processor's import-resolved tie-break).
type ImportMap struct {
	targets map[string][]string
	seen    map[string]map[string]struct{}
}

// NewImportMap creates an empty ImportMap.
func NewImportMap() *ImportMap {
	return &ImportMap{
		targets: make(map[string][]string),
		seen:    make(map[string]map[string]struct{}),
	}
}

// Add records that fromFile imports toFile, preserving insertion order
// and de-duplicating repeats.
func (m *ImportMap) Add(fromFile, toFile string) {
	set, ok := m.seen[fromFile]
	if !ok {
		set = make(map[string]struct{})
		m.seen[fromFile] = set
	}
	if _, exists := set[toFile]; exists {
		return
	}
	set[toFile] = struct{}{}
	m.targets[fromFile] = append(m.targets[fromFile], toFile)
}

// Targets returns the files fromFile imports, in insertion order.
func (m *ImportMap) Targets(fromFile string) []string {
	return m.targets[fromFile]
}
