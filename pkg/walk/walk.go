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

package walk

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// File is a single enumerated repository file: its path relative to the
// repository root (always forward-slash separated) and its size in bytes.
type File struct {
	RelativePath string
	Size         int64
}

// Walk enumerates every non-ignored regular file under root, returning
// File records sorted by RelativePath so that downstream stages (which
// fan the list out to parallel workers) see a deterministic order
// regardless of the underlying filesystem's directory iteration order.
func Walk(root string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ShouldIgnore(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if ShouldIgnore(rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		files = append(files, File{RelativePath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}
