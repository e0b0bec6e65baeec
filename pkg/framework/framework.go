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

// Package framework detects, from a file path or a definition's source
// text, which web/application framework a symbol likely belongs to, and
// the confidence multiplier that should feed into entry-point scoring.
package framework

import (
	"regexp"
	"strings"
)

// Hint is a detected framework association.
type Hint struct {
	Framework  string
	Multiplier float64
	Reason     string
}

type pathRule struct {
	pattern    *regexp.Regexp
	framework  string
	multiplier float64
}

// pathRules are tried in order; the first match wins. Patterns are
// matched against a normalised path: lowercase, forward slashes, leading
// slash.
var pathRules = []pathRule{
	{regexp.MustCompile(`^/pages/api/`), "nextjs-api", 3.0},
	{regexp.MustCompile(`^/pages/[^_/]`), "nextjs-pages", 3.0},
	{regexp.MustCompile(`^/app/.*/api/.*/route\.ts$`), "nextjs-api", 3.0},
	{regexp.MustCompile(`^/app/.*/page\.(tsx|ts|jsx|js)$`), "nextjs-app", 3.0},
	{regexp.MustCompile(`^/app/.*/layout\.(tsx|ts)$`), "nextjs-app", 2.0},
	{regexp.MustCompile(`^/routes/.*\.(ts|js)$`), "express", 2.5},
	{regexp.MustCompile(`^/controllers/.*\.(ts|js)$`), "express", 2.5},
	{regexp.MustCompile(`^/controllers/.*\.go$`), "go-http", 2.5},
	{regexp.MustCompile(`^/controllers/.*\.java$`), "spring", 3.0},
	{regexp.MustCompile(`^/controllers/.*\.kt$`), "spring", 3.0},
	{regexp.MustCompile(`^/controllers/.*\.cs$`), "aspnet", 3.0},
	{regexp.MustCompile(`^/controllers/.*\.php$`), "laravel", 3.0},
	{regexp.MustCompile(`(^|/)views\.py$`), "django", 2.0},
	{regexp.MustCompile(`(^|/)urls\.py$`), "django", 2.0},
	{regexp.MustCompile(`^/routers/.*\.py$`), "fastapi", 3.0},
	{regexp.MustCompile(`(^|/)controller[^/]*\.java$`), "spring", 3.0},
	{regexp.MustCompile(`controller\.java$`), "spring", 3.0},
	{regexp.MustCompile(`\.java$`), "spring", 3.0},
	{regexp.MustCompile(`^/handlers/.*\.go$`), "go-http", 2.5},
	{regexp.MustCompile(`^/handlers/.*\.(ts|js)$`), "node-http", 2.5},
	{regexp.MustCompile(`^/handlers/.*\.rs$`), "rust-http", 2.5},
	{regexp.MustCompile(`(^|/)main\.go$`), "go", 3.0},
	{regexp.MustCompile(`(^|/)main\.rs$`), "rust", 3.0},
	{regexp.MustCompile(`(^|/)main\.c$`), "c", 3.0},
	{regexp.MustCompile(`(^|/)main\.cpp$`), "cpp", 3.0},
	{regexp.MustCompile(`(^|/)main\.kt$`), "kotlin", 3.0},
	{regexp.MustCompile(`^/src/bin/.*\.rs$`), "rust", 2.5},
	{regexp.MustCompile(`^/routes/.*\.php$`), "laravel", 3.0},
	{regexp.MustCompile(`^/http/controllers/.*\.php$`), "laravel", 3.0},
	{regexp.MustCompile(`^/(jobs|listeners|middleware)/.*\.php$`), "laravel", 2.5},
	{regexp.MustCompile(`(^|/)appdelegate\.swift$`), "ios-uikit", 3.0},
	{regexp.MustCompile(`^/viewcontrollers/.*\.swift$`), "ios-uikit", 2.5},
}

// DetectFromPath normalises path and runs it against the ordered path
// rule table, returning the first match.
func DetectFromPath(path string) (Hint, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	for _, rule := range pathRules {
		if rule.pattern.MatchString(normalized) {
			return Hint{Framework: rule.framework, Multiplier: rule.multiplier, Reason: "path:" + rule.pattern.String()}, true
		}
	}
	return Hint{}, false
}

type astRule struct {
	substr     string
	framework  string
	multiplier float64
}

// astHints maps a language to its ordered table of substring patterns,
// matched case-insensitively against the first ~300 characters of a
// definition's source text.
var astHints = map[string][]astRule{
	"typescript": {
		{"@controller", "nestjs", 3.2},
		{"@get(", "nestjs", 3.2},
		{"@post(", "nestjs", 3.2},
	},
	"javascript": {
		{"@controller", "nestjs", 3.2},
		{"@get(", "nestjs", 3.2},
	},
	"python": {
		{"@app.get", "fastapi", 3.0},
		{"@app.post", "fastapi", 3.0},
		{"@api_view", "django-rest", 2.8},
	},
	"java": {
		{"@restcontroller", "spring", 3.2},
		{"@controller", "spring", 3.0},
	},
	"csharp": {
		{"[apicontroller]", "aspnet", 3.2},
	},
	"php": {
		{"route::get", "laravel", 3.0},
		{"route::post", "laravel", 3.0},
	},
	"swift": {
		{"viewdidload", "uikit", 2.5},
	},
}

const astHintWindow = 300

// DetectFromAST matches the first astHintWindow characters of astText
// (case-insensitively, substring) against language's pattern table.
func DetectFromAST(language, astText string) (Hint, bool) {
	rules, ok := astHints[language]
	if !ok {
		return Hint{}, false
	}
	window := astText
	if len(window) > astHintWindow {
		window = window[:astHintWindow]
	}
	window = strings.ToLower(window)

	for _, rule := range rules {
		if strings.Contains(window, rule.substr) {
			return Hint{Framework: rule.framework, Multiplier: rule.multiplier, Reason: "ast:" + rule.substr}, true
		}
	}
	return Hint{}, false
}
