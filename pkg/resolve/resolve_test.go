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

package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/graphkit/pkg/resolve"
)

func TestResolveRelativeWithExtensionProbe(t *testing.T) {
	ctx := resolve.NewContext([]string{"src/a.ts", "src/util.ts", "src/index.ts"})
	target, ok := ctx.Resolve("src/a.ts", "./util")
	assert.True(t, ok)
	assert.Equal(t, "src/util.ts", target)
}

func TestResolveRelativeExactMatch(t *testing.T) {
	ctx := resolve.NewContext([]string{"src/a.go", "src/util.go"})
	target, ok := ctx.Resolve("src/a.go", "./util.go")
	assert.True(t, ok)
	assert.Equal(t, "src/util.go", target)
}

func TestResolveViaSuffixIndex(t *testing.T) {
	ctx := resolve.NewContext([]string{"pkg/internal/widget/widget.go"})
	target, ok := ctx.Resolve("cmd/main.go", "widget/widget")
	assert.True(t, ok)
	assert.Equal(t, "pkg/internal/widget/widget.go", target)
}

func TestResolveUnresolved(t *testing.T) {
	ctx := resolve.NewContext([]string{"src/a.go"})
	_, ok := ctx.Resolve("src/a.go", "./nonexistent")
	assert.False(t, ok)
}

func TestImportMapPreservesInsertionOrderAndDedupes(t *testing.T) {
	m := resolve.NewImportMap()
	m.Add("a.go", "b.go")
	m.Add("a.go", "c.go")
	m.Add("a.go", "b.go")

	assert.Equal(t, []string{"b.go", "c.go"}, m.Targets("a.go"))
}
