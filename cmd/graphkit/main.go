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

// Package main implements the graphkit CLI: it builds a typed code
// knowledge graph for a repository and exposes it for analysis.
//
// Usage:
//
//	graphkit analyze [path]   Build (or refresh) the graph for a repository
//	graphkit setup            Interactively create .graphkit/project.yaml (not implemented)
//	graphkit mcp               Start an MCP server over the graph (not implemented)
//	graphkit wiki               Generate an LLM-narrated wiki (not implemented)
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	graphkiterrors "github.com/kraklabs/graphkit/internal/errors"
	"github.com/kraklabs/graphkit/internal/ui"
)

// Version information, set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds flags accepted before the subcommand name and
// shared by every subcommand.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	NoColor bool
	Verbose int
	Config  string
}

func main() {
	fs := flag.NewFlagSet("graphkit", flag.ContinueOnError)
	fs.SetInterspersed(false)

	var globals GlobalFlags
	showVersion := fs.Bool("version", false, "Show version and exit")
	fs.BoolVar(&globals.JSON, "json", false, "Output machine-readable JSON")
	fs.BoolVarP(&globals.Quiet, "quiet", "q", false, "Suppress progress output")
	fs.BoolVar(&globals.NoColor, "no-color", false, "Disable colored output")
	fs.CountVarP(&globals.Verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	fs.StringVar(&globals.Config, "config", "", "Path to .graphkit/project.yaml (default: ./.graphkit/project.yaml)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `graphkit - typed code knowledge graph builder

Usage:
  graphkit <command> [options]

Commands:
  analyze [path]   Build (or refresh) the graph for a repository (default path: .)
  setup            Interactively create .graphkit/project.yaml (not implemented)
  mcp              Start an MCP server over the graph (not implemented)
  wiki             Generate an LLM-narrated wiki (not implemented)

Global Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(graphkiterrors.ExitInput)
	}

	if globals.JSON {
		globals.Quiet = true
	}
	ui.InitColors(globals.NoColor)
	if globals.Verbose > 0 {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if *showVersion {
		fmt.Printf("graphkit version %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		os.Exit(graphkiterrors.ExitSuccess)
	}

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(graphkiterrors.ExitInput)
	}

	command, cmdArgs := args[0], args[1:]
	switch command {
	case "analyze":
		runAnalyze(cmdArgs, globals)
	case "setup":
		runSetup(cmdArgs, globals)
	case "mcp":
		runMCP(cmdArgs, globals)
	case "wiki":
		runWiki(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fs.Usage()
		os.Exit(graphkiterrors.ExitInput)
	}
}
