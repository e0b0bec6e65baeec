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

// Package bootstrap handles graphkit project initialization and setup.
//
// This internal package creates a project's tabular storage directory
// and ensures it's ready for an ingestion run before the CLI proceeds.
//
// # Initialization Workflow
//
// A typical workflow for setting up a new graphkit project:
//
//	// Initialize the project (creates the storage directory)
//	info, err := bootstrap.InitProject(bootstrap.ProjectConfig{
//	    ProjectID: "myproject",
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Project initialized at: %s\n", info.DataDir)
//
//	// Later, open the project for reading
//	backend, err := bootstrap.OpenProject(bootstrap.ProjectConfig{
//	    ProjectID: "myproject",
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Idempotency
//
// InitProject is idempotent: calling it multiple times on the same
// project is safe and will not corrupt existing data.
//
// # Configuration
//
// ProjectConfig controls the initialization behavior:
//
//   - ProjectID: Required. Logical identifier for the project.
//   - DataDir: Optional. Where to store tabular data. Defaults to
//     ~/.graphkit/data/<project_id>.
//
// # Project Discovery
//
// List existing projects in the default data directory:
//
//	projects, err := bootstrap.ListProjects()
//	for _, id := range projects {
//	    fmt.Println(id)
//	}
package bootstrap
