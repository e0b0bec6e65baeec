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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the per-repository .graphkit/project.yaml configuration.
type Config struct {
	ProjectID  string `yaml:"project_id"`
	MaxWorkers int    `yaml:"max_workers,omitempty"`
	DataDir    string `yaml:"data_dir,omitempty"`
}

// DefaultConfig returns the configuration assumed by 'graphkit analyze'
// when no config file exists yet.
func DefaultConfig(projectID string) *Config {
	return &Config{ProjectID: projectID}
}

// ConfigDir returns the .graphkit directory for a repository root.
func ConfigDir(repoPath string) string {
	return filepath.Join(repoPath, ".graphkit")
}

// ConfigPath returns the project.yaml path for a repository root.
func ConfigPath(repoPath string) string {
	return filepath.Join(ConfigDir(repoPath), "project.yaml")
}

// LoadConfig reads and parses a project.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from ConfigPath(repoPath), not user input
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("config at %s has no project_id", path)
	}
	return &cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating the parent directory
// if necessary.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
