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

// Package errors provides structured error handling for the graphkit CLI
// and pipeline.
//
// UserError carries what went wrong, why, and how to fix it, plus an exit
// code for consistent CLI behavior. Kind classifies the error against the
// taxonomy the ingestion pipeline distinguishes: some kinds are
// user-recoverable and get surfaced with a one-line hint, some are dropped
// silently per file, and some simply mean "no edge was materialized" and
// are not errors at all.
//
// # Usage
//
//	err := errors.NewStaleIndexError(repoPath, lastCommit, headCommit)
//	if err != nil {
//	    errors.FatalError(err, jsonMode)
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): successful execution
//   - ExitConfig (1): NotARepository, NoIndex, StaleIndex
//   - ExitDatabase (2): StorageLocked, StorageUnavailable
//   - ExitNetwork (3): network/transport errors reaching remote storage
//   - ExitInput (4): invalid user input (bad arguments, validation errors)
//   - ExitPermission (5): permission denied (file access, etc.)
//   - ExitNotFound (6): resource not found (project, repo, index)
//   - ExitTimeout (7): Timeout
//   - ExitCancelled (8): Cancelled
//   - ExitInternal (10): internal errors (bugs, panics)
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	ExitSuccess    = 0
	ExitConfig     = 1
	ExitDatabase   = 2
	ExitNetwork    = 3
	ExitInput      = 4
	ExitPermission = 5
	ExitNotFound   = 6
	ExitTimeout    = 7
	ExitCancelled  = 8
	ExitInternal   = 10
)

// Kind classifies an error against the taxonomy in the error handling
// design: which ones are user-recoverable, which are dropped silently,
// and which are not errors at all.
type Kind string

const (
	// KindNotARepository: the target path has no recognizable repository
	// root. User-recoverable; surfaced with a one-line hint.
	KindNotARepository Kind = "not_a_repository"

	// KindNoIndex: the repository has never been indexed. User-recoverable.
	KindNoIndex Kind = "no_index"

	// KindStaleIndex: the persisted index predates the repository's
	// current HEAD. User-recoverable.
	KindStaleIndex Kind = "stale_index"

	// KindUnsupportedLanguage: the file's extension maps to no known
	// language. Never raised as a UserError; the file is silently dropped
	// from extraction.
	KindUnsupportedLanguage Kind = "unsupported_language"

	// KindParseFailure: tree-sitter produced an unusable tree for the
	// file. Logged and the file is dropped; the run does not abort.
	KindParseFailure Kind = "parse_failure"

	// KindResolutionMiss: a call or heritage reference could not be
	// resolved to a symbol. Not an error — the edge is simply not
	// materialized.
	KindResolutionMiss Kind = "resolution_miss"

	// KindStorageLocked: the storage backend is held by another writer.
	// Retried with linear backoff before being surfaced.
	KindStorageLocked Kind = "storage_locked"

	// KindStorageUnavailable: the storage backend could not be reached.
	KindStorageUnavailable Kind = "storage_unavailable"

	// KindTimeout: an operation exceeded its deadline.
	KindTimeout Kind = "timeout"

	// KindCancelled: the caller's context was cancelled.
	KindCancelled Kind = "cancelled"

	// KindNotImplemented: a CLI command exists for interface
	// completeness but delegates to an external collaborator this
	// repository does not implement (MCP adapter, setup wizard, LLM
	// wiki generator).
	KindNotImplemented Kind = "not_implemented"
)

// MaxStorageLockRetries is the number of times a StorageLocked operation
// is retried before being surfaced to the caller.
const MaxStorageLockRetries = 3

// StorageLockBackoff returns the linear backoff delay before retry
// attempt n (1-indexed): 2s, 4s, 6s.
func StorageLockBackoff(attempt int) time.Duration {
	return 2 * time.Second * time.Duration(attempt)
}

// UserError represents an error with structured context for end users.
//
// It provides three levels of information: Message (what went wrong),
// Cause (why), and Fix (how to resolve it). Kind classifies the error
// against the pipeline's error taxonomy; ExitCode is the process exit
// code a CLI should use; Err optionally wraps the underlying cause for
// errors.Is/As compatibility.
type UserError struct {
	Kind     Kind
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewNotARepositoryError reports that path does not look like a
// repository root (no VCS metadata, no recognizable project files).
func NewNotARepositoryError(path string) *UserError {
	return &UserError{
		Kind:     KindNotARepository,
		Message:  fmt.Sprintf("%s is not a repository", path),
		Cause:    "no version-control metadata was found at or above this path",
		Fix:      "run graphkit from inside a git repository, or point it at one",
		ExitCode: ExitConfig,
	}
}

// NewNoIndexError reports that the repository has never been indexed.
func NewNoIndexError(path string) *UserError {
	return &UserError{
		Kind:     KindNoIndex,
		Message:  fmt.Sprintf("%s has no index", path),
		Cause:    "no prior graphkit run has persisted a graph for this repository",
		Fix:      "run 'graphkit analyze' to build an index",
		ExitCode: ExitConfig,
	}
}

// NewStaleIndexError reports that the persisted index was built against
// a commit older than the repository's current HEAD.
func NewStaleIndexError(path, indexedCommit, headCommit string) *UserError {
	return &UserError{
		Kind:    KindStaleIndex,
		Message: fmt.Sprintf("%s's index is stale", path),
		Cause: fmt.Sprintf("index was built at %s, HEAD is now %s",
			shortSHA(indexedCommit), shortSHA(headCommit)),
		Fix:      "run 'graphkit analyze' to refresh the index",
		ExitCode: ExitConfig,
	}
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

// NewStorageLockedError reports that the storage backend is held by
// another writer after exhausting MaxStorageLockRetries retries.
func NewStorageLockedError(cause string, err error) *UserError {
	return &UserError{
		Kind:     KindStorageLocked,
		Message:  "the graph store is locked by another process",
		Cause:    cause,
		Fix:      "wait for the other graphkit process to finish, or remove its lock file if it crashed",
		ExitCode: ExitDatabase,
		Err:      err,
	}
}

// NewStorageUnavailableError reports that the storage backend could not
// be opened or reached at all.
func NewStorageUnavailableError(cause string, err error) *UserError {
	return &UserError{
		Kind:     KindStorageUnavailable,
		Message:  "the graph store is unavailable",
		Cause:    cause,
		Fix:      "check that the index directory is reachable and not corrupted",
		ExitCode: ExitDatabase,
		Err:      err,
	}
}

// NewTimeoutError reports that op exceeded its deadline.
func NewTimeoutError(op string, err error) *UserError {
	return &UserError{
		Kind:     KindTimeout,
		Message:  fmt.Sprintf("%s timed out", op),
		Fix:      "retry; if this persists the repository may be too large for the configured timeout",
		ExitCode: ExitTimeout,
		Err:      err,
	}
}

// NewCancelledError reports that the caller's context was cancelled
// mid-run.
func NewCancelledError() *UserError {
	return &UserError{
		Kind:     KindCancelled,
		Message:  "run cancelled",
		ExitCode: ExitCancelled,
	}
}

// NewNotImplementedError reports that command delegates to collaborator,
// an external system this repository does not implement.
func NewNotImplementedError(command, collaborator string) *UserError {
	return &UserError{
		Kind:     KindNotImplemented,
		Message:  fmt.Sprintf("%s is not implemented", command),
		Cause:    fmt.Sprintf("this command would delegate to %s, which is out of scope for this repository", collaborator),
		ExitCode: ExitConfig,
	}
}

// ParseFailure describes a single file that tree-sitter could not parse
// usefully. It is deliberately not a UserError: per-file parse failures
// are logged and the file is dropped, they never abort a run.
type ParseFailure struct {
	FilePath string
	Err      error
}

func (f ParseFailure) Error() string {
	return fmt.Sprintf("parse failure in %s: %v", f.FilePath, f.Err)
}

// Color definitions for error formatting.
var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display, with
// colored Error/Cause/Fix sections. Color is disabled when noColor is
// true or NO_COLOR is set. Empty Cause or Fix fields are omitted.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON is the JSON-serializable form of UserError, for --json mode.
type ErrorJSON struct {
	Kind     string `json:"kind,omitempty"`
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to its JSON-serializable form.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Kind:     string(e.Kind),
		Error:    e.Message,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// FatalError prints err and exits with its exit code. Non-UserError
// values print a bare message and exit ExitInternal. Never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
