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

package parse

import (
	"container/list"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// DefaultCacheSize is the AST cache's default entry count (spec §4.3).
const DefaultCacheSize = 50

type cacheEntry struct {
	key  string
	tree *sitter.Tree
}

// ASTCache is a bounded, keyed-by-file-path LRU. It is accessed only
// from the single orchestrator goroutine (spec §4.3); per-file parsing
// on worker goroutines uses isolated parser instances and never touches
// the cache directly.
type ASTCache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List // front = most recently used
}

// NewASTCache creates a cache holding at most maxSize entries. A
// non-positive maxSize is replaced with DefaultCacheSize.
func NewASTCache(maxSize int) *ASTCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &ASTCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached tree for path and marks it most-recently-used.
// Returns (nil, false) on a miss, including after the entry has been
// evicted.
func (c *ASTCache) Get(path string) (*sitter.Tree, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[path]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).tree, true
}

// Put inserts or replaces the tree cached for path, evicting the
// least-recently-used entry if the cache is at capacity. The evicted
// tree's resources are released via Close.
func (c *ASTCache) Put(path string, tree *sitter.Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[path]; ok {
		el.Value.(*cacheEntry).tree.Close()
		el.Value.(*cacheEntry).tree = tree
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			entry := oldest.Value.(*cacheEntry)
			entry.tree.Close()
			delete(c.items, entry.key)
			c.order.Remove(oldest)
		}
	}

	el := c.order.PushFront(&cacheEntry{key: path, tree: tree})
	c.items[path] = el
}

// Len returns the number of entries currently cached.
func (c *ASTCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
