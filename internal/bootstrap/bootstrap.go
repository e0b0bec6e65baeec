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

package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	graphkiterrors "github.com/kraklabs/graphkit/internal/errors"
	"github.com/kraklabs/graphkit/pkg/storage/tabular"
)

// ProjectConfig holds configuration for initializing a project.
type ProjectConfig struct {
	// ProjectID is the logical project identifier.
	ProjectID string

	// DataDir is the directory where the project's tabular storage
	// lives. Defaults to ~/.graphkit/data/<project_id>.
	DataDir string
}

// ProjectInfo holds information about an initialized project.
type ProjectInfo struct {
	ProjectID string
	DataDir   string
}

func withDefaults(config ProjectConfig) (ProjectConfig, error) {
	if config.ProjectID == "" {
		return config, fmt.Errorf("project_id is required")
	}
	if config.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return config, fmt.Errorf("get home dir: %w", err)
		}
		config.DataDir = filepath.Join(homeDir, ".graphkit", "data", config.ProjectID)
	}
	return config, nil
}

// InitProject initializes a new graphkit project's tabular storage
// directory. This function is idempotent: calling it multiple times is
// safe, since tabular.Open only creates the directory and an advisory
// lock file, acquiring and releasing the lock within this call.
func InitProject(config ProjectConfig, logger *slog.Logger) (*ProjectInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}

	logger.Info("bootstrap.project.init.start",
		"project_id", config.ProjectID,
		"data_dir", config.DataDir,
	)

	backend, err := tabular.Open(tabular.Config{DataDir: config.DataDir, ProjectID: config.ProjectID})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = backend.Close() }()

	logger.Info("bootstrap.project.init.success",
		"project_id", config.ProjectID,
		"data_dir", config.DataDir,
	)

	return &ProjectInfo{ProjectID: config.ProjectID, DataDir: config.DataDir}, nil
}

// OpenProject opens an existing graphkit project's tabular storage
// directory, returning the backend for reading or appending to it.
func OpenProject(config ProjectConfig, logger *slog.Logger) (*tabular.Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(config.DataDir); os.IsNotExist(err) {
		return nil, graphkiterrors.NewNoIndexError(config.DataDir)
	}

	logger.Debug("bootstrap.project.open",
		"project_id", config.ProjectID,
		"data_dir", config.DataDir,
	)

	return tabular.Open(tabular.Config{DataDir: config.DataDir, ProjectID: config.ProjectID})
}

// ListProjects returns a list of project IDs in the default data directory.
func ListProjects() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".graphkit", "data")
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	return projects, nil
}
