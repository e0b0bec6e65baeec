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

// Package entrypoint scores symbols by how likely they are to be a
// program's entry point, combining fan-out, export status, naming
// convention, and framework hints.
package entrypoint

import (
	"strings"

	"github.com/kraklabs/graphkit/pkg/framework"
)

// Symbol is the input to Score: everything the formula in spec §4.11
// needs about one definition.
type Symbol struct {
	Name        string
	Language    string
	IsExported  bool
	CallerCount int
	CalleeCount int
	FilePath    string
	ASTText     string
}

// Result carries the computed score plus the ordered list of reasons
// that contributed to it.
type Result struct {
	Score   float64
	Reasons []string
}

var universalPatterns = []string{"main", "init", "bootstrap", "start", "run", "setup", "configure"}

var universalPrefixSuffix = []struct {
	prefix string
	suffix string
}{
	{prefix: "handle"},
	{prefix: "on"},
	{suffix: "Handler"},
	{suffix: "Controller"},
	{prefix: "process"},
	{prefix: "execute"},
	{prefix: "perform"},
	{prefix: "dispatch"},
	{prefix: "trigger"},
	{prefix: "fire"},
	{prefix: "emit"},
}

var utilityPrefixes = []string{
	"get", "set", "is", "has", "can", "format", "parse", "validate",
	"to", "from", "encode", "serialize", "clone", "merge",
}

// languagePatterns adds language-specific entry-point name conventions
// on top of the universal set. None are currently defined beyond the
// universal table; the hook exists so future grammars can extend it
// without changing Score's signature.
var languagePatterns = map[string][]string{}

func nameMatchesUniversal(name, language string) bool {
	lower := strings.ToLower(name)
	for _, p := range universalPatterns {
		if lower == p {
			return true
		}
	}
	for _, p := range languagePatterns[language] {
		if strings.EqualFold(name, p) {
			return true
		}
	}
	for _, ps := range universalPrefixSuffix {
		if ps.prefix != "" && strings.HasPrefix(name, ps.prefix) {
			return true
		}
		if ps.suffix != "" && strings.HasSuffix(name, ps.suffix) {
			return true
		}
	}
	return false
}

func nameMatchesUtility(name string) bool {
	if strings.HasPrefix(name, "_") {
		return true
	}
	for _, p := range utilityPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// testFilePatterns are matched case-insensitively against a
// backslash-normalised path.
var testFilePatterns = []string{
	".test.", ".spec.", "__tests__", "__mocks__", "/test/", "/tests/", "/testing/",
	"_test.go", "_test.py", "tests.swift", ".tests/", "tests/feature/", "tests/unit/",
}

// IsTestFile reports whether path looks like a test file, per spec
// §4.11's isTestFile rule.
func IsTestFile(path string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	for _, pat := range testFilePatterns {
		if strings.Contains(normalized, pat) {
			return true
		}
	}
	return false
}

// Score computes the entry-point score and contributing reasons for s.
func Score(s Symbol) Result {
	if s.CalleeCount == 0 {
		return Result{Score: 0, Reasons: []string{"no-outgoing-calls"}}
	}

	score := float64(s.CalleeCount) / float64(s.CallerCount+1)
	var reasons []string

	if s.IsExported {
		score *= 2.0
		reasons = append(reasons, "exported")
	}
	if nameMatchesUniversal(s.Name, s.Language) {
		score *= 1.5
		reasons = append(reasons, "entry-pattern")
	}
	if nameMatchesUtility(s.Name) {
		score *= 0.3
		reasons = append(reasons, "utility-pattern")
	}
	if hint, ok := framework.DetectFromPath(s.FilePath); ok {
		score *= hint.Multiplier
		reasons = append(reasons, "framework:"+hint.Reason)
	}
	if hint, ok := framework.DetectFromAST(s.Language, s.ASTText); ok {
		score *= hint.Multiplier
	}

	return Result{Score: score, Reasons: reasons}
}
