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

package walk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/walk"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestWalkSkipsIgnoredDirectoriesAndFiles(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "pkg/util.go", "package pkg\n")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, root, "node_modules/left-pad/index.js", "module.exports = x\n")
	writeFile(t, root, "dist/bundle.min.js", "console.log(1)\n")
	writeFile(t, root, "assets/logo.png", "\x89PNG")
	writeFile(t, root, "yarn.lock", "# lockfile\n")
	writeFile(t, root, ".env.local", "SECRET=1\n")
	writeFile(t, root, "types/api.d.ts", "export type X = number\n")
	writeFile(t, root, "LICENSE", "Apache-2.0\n")

	files, err := walk.Walk(root)
	require.NoError(t, err)

	var got []string
	for _, f := range files {
		got = append(got, f.RelativePath)
	}
	assert.ElementsMatch(t, []string{"main.go", "pkg/util.go"}, got)
}

func TestWalkSortsByRelativePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.go", "package z\n")
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "m/b.go", "package m\n")

	files, err := walk.Walk(root)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.go", files[0].RelativePath)
	assert.Equal(t, "m/b.go", files[1].RelativePath)
	assert.Equal(t, "z.go", files[2].RelativePath)
}

func TestShouldIgnoreCompoundSuffixes(t *testing.T) {
	cases := map[string]bool{
		"foo.min.js":          true,
		"foo.bundle.js":       true,
		"foo.chunk.js":        true,
		"schema.generated.go": true,
		"types.d.ts":          true,
		"foo.js":              false,
		"foo.ts":              false,
	}
	for name, want := range cases {
		assert.Equal(t, want, walk.ShouldIgnore(name), name)
	}
}
