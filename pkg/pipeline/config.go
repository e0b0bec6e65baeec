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

package pipeline

import (
	"log/slog"
	"runtime"

	"github.com/kraklabs/graphkit/pkg/checkpoint"
	"github.com/kraklabs/graphkit/pkg/process"
	"github.com/kraklabs/graphkit/pkg/storage"
)

// Config configures a single ingestion run.
type Config struct {
	// RootPath is the repository root to walk.
	RootPath string

	// ProjectID identifies the repository in persisted metadata.
	ProjectID string

	// MaxWorkers bounds the parallel extraction pool. Zero means
	// runtime.GOMAXPROCS(0).
	MaxWorkers int

	// Storage, if non-nil, receives the finished graph. Its Close is
	// never called here; the caller owns that lifecycle.
	Storage storage.Writer

	// Checkpoint, if non-nil, is consulted per file via Store.Changed to
	// skip re-parsing and re-extracting files whose content checksum
	// hasn't moved since the last run; their previously persisted
	// symbols and relationships are reloaded from Storage instead (which
	// must also implement storage.Reader for this to take effect). Each
	// successfully processed file's checksum is recorded after
	// extraction either way.
	Checkpoint *checkpoint.Store

	// Process tunes the process-detection stage. The zero value is
	// replaced with process.DefaultConfig().
	Process process.Config

	// Progress receives typed progress events. May be nil.
	Progress ProgressFunc

	// Logger receives structured run/phase events. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

// WithDefaults returns a copy of cfg with zero-valued fields replaced by
// their defaults.
func (c Config) WithDefaults() Config {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = runtime.GOMAXPROCS(0)
	}
	if c.Process == (process.Config{}) {
		c.Process = process.DefaultConfig()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
