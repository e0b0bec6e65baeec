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

	flag "github.com/spf13/pflag"

	graphkiterrors "github.com/kraklabs/graphkit/internal/errors"
)

// runSetup would walk a user through creating .graphkit/project.yaml
// interactively. Building that wizard means prompting for a project
// name, defaults, and writing the file via an LLM-assisted dialogue;
// none of that exists here yet, so the command reports itself as
// unimplemented rather than pretending to succeed.
func runSetup(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: graphkit setup\n\nInteractively creates .graphkit/project.yaml (not implemented).\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(graphkiterrors.ExitInput)
	}
	graphkiterrors.FatalError(
		graphkiterrors.NewNotImplementedError("setup", "an LLM-assisted setup wizard"),
		globals.JSON,
	)
}

// runMCP would expose the graph over the Model Context Protocol so an
// editor or agent could query it live. That adapter is a separate
// collaborator this repository builds the graph for, not in place of.
func runMCP(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: graphkit mcp\n\nStarts an MCP server over the persisted graph (not implemented).\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(graphkiterrors.ExitInput)
	}
	graphkiterrors.FatalError(
		graphkiterrors.NewNotImplementedError("mcp", "an MCP adapter"),
		globals.JSON,
	)
}

// runWiki would narrate the graph into human-readable documentation
// pages via an LLM. Generating prose from graph structure is out of
// scope for this repository; it supplies the graph the narrator reads.
func runWiki(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("wiki", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: graphkit wiki\n\nGenerates an LLM-narrated wiki from the persisted graph (not implemented).\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(graphkiterrors.ExitInput)
	}
	graphkiterrors.FatalError(
		graphkiterrors.NewNotImplementedError("wiki", "an LLM wiki generator"),
		globals.JSON,
	)
}
