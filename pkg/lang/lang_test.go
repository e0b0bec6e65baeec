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

package lang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/graphkit/pkg/lang"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		tag  lang.Tag
		ok   bool
	}{
		{"main.go", lang.Go, true},
		{"component.tsx", lang.TypeScript, true},
		{"component.TSX", lang.TypeScript, true},
		{"script.js", lang.JavaScript, true},
		{"app.py", lang.Python, true},
		{"Main.java", lang.Java, true},
		{"header.h", lang.C, true},
		{"impl.cxx", lang.CPP, true},
		{"Program.cs", lang.CSharp, true},
		{"lib.rs", lang.Rust, true},
		{"index.phtml", lang.PHP, true},
		{"View.swift", lang.Swift, true},
		{"Main.kt", lang.Kotlin, true},
		{"README.md", "", false},
		{"Makefile", "", false},
	}
	for _, tc := range cases {
		tag, ok := lang.Classify(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.tag, tag, tc.path)
	}
}
