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

package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/symtab"
)

func TestExactLastWriterWins(t *testing.T) {
	tb := symtab.New()
	tb.Add("a.go", "Foo", "Function:a.go:Foo:1", graph.KindFunction)
	tb.Add("a.go", "Foo", "Function:a.go:Foo:10", graph.KindFunction)

	id, ok := tb.LookupExact("a.go", "Foo")
	assert.True(t, ok)
	assert.Equal(t, "Function:a.go:Foo:10", id)
}

func TestFuzzyPreservesDuplicates(t *testing.T) {
	tb := symtab.New()
	tb.Add("a.go", "Foo", "Function:a.go:Foo:1", graph.KindFunction)
	tb.Add("b.go", "Foo", "Function:b.go:Foo:5", graph.KindFunction)

	hits := tb.LookupFuzzy("Foo")
	assert.Len(t, hits, 2)
	assert.Equal(t, "Function:a.go:Foo:1", hits[0].NodeID)
	assert.Equal(t, "Function:b.go:Foo:5", hits[1].NodeID)
}

func TestGetStats(t *testing.T) {
	tb := symtab.New()
	tb.Add("a.go", "Foo", "Function:a.go:Foo:1", graph.KindFunction)
	tb.Add("a.go", "Bar", "Function:a.go:Bar:5", graph.KindFunction)
	tb.Add("b.go", "Foo", "Function:b.go:Foo:1", graph.KindFunction)

	stats := tb.GetStats()
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 2, stats.GlobalSymbolCount)
}

func TestClear(t *testing.T) {
	tb := symtab.New()
	tb.Add("a.go", "Foo", "Function:a.go:Foo:1", graph.KindFunction)
	tb.Clear()

	_, ok := tb.LookupExact("a.go", "Foo")
	assert.False(t, ok)
	assert.Empty(t, tb.LookupFuzzy("Foo"))
	assert.Equal(t, symtab.Stats{}, tb.GetStats())
}
