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

// Package walk enumerates source files under a repository root, applying
// a fixed ignore policy (version-control directories, dependency/cache
// directories, build outputs, test artefacts, and a long tail of
// extension/filename rules) before handing files to the rest of the
// pipeline.
package walk

import (
	"path/filepath"
	"runtime"
	"strings"
)

// ignoredDirs are path segments that always exclude a subtree, regardless
// of depth.
var ignoredDirs = map[string]bool{
	// version control / IDE
	".git": true, ".svn": true, ".hg": true, ".bzr": true, ".idea": true, ".vscode": true, ".vs": true,
	// dependency / cache
	"node_modules": true, "vendor": true, "venv": true, ".venv": true, "__pycache__": true,
	"site-packages": true, ".mypy_cache": true, ".pytest_cache": true,
	// build outputs
	"dist": true, "build": true, "out": true, "output": true, "bin": true, "obj": true, "target": true,
	".next": true, ".nuxt": true, ".vercel": true, ".parcel-cache": true, ".turbo": true,
	// test artefacts
	"coverage": true, "__tests__": true, "__mocks__": true, ".nyc_output": true,
}

// ignoredExtensions covers images, archives, native binaries, documents,
// media, fonts, databases, source maps, lock artefacts, certificates, and
// miscellaneous data files.
var ignoredExtensions = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true, ".webp": true, ".svg": true, ".tiff": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true, ".rar": true, ".xz": true,
	// native binaries
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true, ".o": true, ".bin": true,
	// documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	// media
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wav": true, ".flac": true, ".mkv": true,
	// fonts
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true, ".eot": true,
	// databases
	".db": true, ".sqlite": true, ".sqlite3": true,
	// source maps
	".map": true,
	// certificates
	".pem": true, ".crt": true, ".key": true, ".p12": true,
	// misc data
	".csv": true, ".parquet": true, ".pickle": true, ".pkl": true,
}

// ignoredFilenames are matched against the exact basename.
var ignoredFilenames = map[string]bool{
	"package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
	"composer.lock": true, "cargo.lock": true, "go.sum": true,
	"changelog.md": true,
}

// ignoredFilenamePrefixes are matched against a lowercased basename prefix.
var ignoredFilenamePrefixes = []string{".env", "license"}

// compoundSuffixes are matched against a lowercased basename suffix and
// can span more than one "extension" (e.g. ".min.js").
var compoundSuffixes = []string{
	".min.js", ".min.css", ".bundle.js", ".chunk.js", ".generated.", ".d.ts",
}

// caseSensitivePlatform reports whether the current platform's filesystem
// is (in the common case) case-sensitive. Darwin and Windows default to
// case-insensitive filesystems; everything else (notably Linux) is
// case-sensitive. This is a heuristic, matching the repo_loader's
// platform-driven comparison, not a filesystem probe.
func caseSensitivePlatform() bool {
	return runtime.GOOS != "windows" && runtime.GOOS != "darwin"
}

// normalizeForMatch converts backslashes to forward slashes and, on
// case-insensitive platforms, lowercases the path for comparison
// purposes. The returned value is for matching only — callers must keep
// the original path for reporting.
func normalizeForMatch(path string) string {
	p := filepath.ToSlash(path)
	if !caseSensitivePlatform() {
		p = strings.ToLower(p)
	}
	return p
}

// ShouldIgnore reports whether relPath (repo-relative, using the
// repository's native separators) should be excluded by the ignore
// policy. It is used for both directories (to short-circuit a subtree)
// and files.
func ShouldIgnore(relPath string) bool {
	normalized := normalizeForMatch(relPath)
	segments := strings.Split(normalized, "/")

	for _, seg := range segments {
		if ignoredDirs[seg] {
			return true
		}
	}

	base := segments[len(segments)-1]
	lowerBase := strings.ToLower(base)

	if ignoredFilenames[base] {
		return true
	}
	for _, prefix := range ignoredFilenamePrefixes {
		if strings.HasPrefix(lowerBase, prefix) {
			return true
		}
	}
	for _, suffix := range compoundSuffixes {
		if strings.HasSuffix(lowerBase, suffix) {
			return true
		}
	}

	ext := filepath.Ext(base)
	if ignoredExtensions[ext] {
		return true
	}

	return false
}
