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

package tabular_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/storage"
	"github.com/kraklabs/graphkit/pkg/storage/tabular"
)

func openBackend(t *testing.T) *tabular.Backend {
	t.Helper()
	b, err := tabular.Open(tabular.Config{DataDir: t.TempDir(), ProjectID: "demo"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestWriteAndReadNodesRoundTrips(t *testing.T) {
	b := openBackend(t)
	ctx := context.Background()

	rows := []storage.Row{
		{"id": "File:a.go", "label": "File", "filePath": "a.go"},
		{"id": "File:b.go", "label": "File", "filePath": "b.go"},
	}
	require.NoError(t, b.WriteNodes(ctx, "File", rows))

	got, err := b.ReadNodes(ctx, "File")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.go", got[0]["filePath"])
}

func TestKeywordArrayEscapesCommaLiterally(t *testing.T) {
	b := openBackend(t)
	ctx := context.Background()

	rows := []storage.Row{
		{"id": "Community:1", "label": "Community", "keywords": []string{"auth", "login", "pass,word"}},
	}
	require.NoError(t, b.WriteNodes(ctx, "Community", rows))

	path := filepath.Join(b.DataDir(), "engine", "community.tab")
	data, err := readFile(path)
	require.NoError(t, err)
	assert.Contains(t, data, `pass\,word`)
}

func TestNumericDefaultsToNegativeOneWhenAbsent(t *testing.T) {
	b := openBackend(t)
	ctx := context.Background()

	rows := []storage.Row{
		{"id": "Function:x", "label": "Function", "startLine": nil},
	}
	require.NoError(t, b.WriteNodes(ctx, "Function", rows))

	got, err := b.ReadNodes(ctx, "Function")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "-1", got[0]["startLine"])
}

func TestTextualFieldsQuoteAndDoubleInternalQuotes(t *testing.T) {
	b := openBackend(t)
	ctx := context.Background()

	rows := []storage.Row{
		{"id": "File:a.go", "label": "File", "filePath": `say "hi"`},
	}
	require.NoError(t, b.WriteNodes(ctx, "File", rows))

	path := filepath.Join(b.DataDir(), "engine", "file.tab")
	data, err := readFile(path)
	require.NoError(t, err)
	assert.Contains(t, data, `"say ""hi"""`)
}

func TestWriteAndReadRelationshipsRoundTrips(t *testing.T) {
	b := openBackend(t)
	ctx := context.Background()

	rows := []storage.RelationshipRow{
		{ID: "e1", SourceID: "a", TargetID: "b", Type: "CALLS", Confidence: 0.85, Reason: "same-file", Step: 0},
	}
	require.NoError(t, b.WriteRelationships(ctx, rows))

	got, err := b.ReadRelationships(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.85, got[0].Confidence)
	assert.Equal(t, "same-file", got[0].Reason)
}

func TestMetadataRoundTrips(t *testing.T) {
	b := openBackend(t)
	ctx := context.Background()

	require.NoError(t, b.WriteMetadata(storage.Metadata{ProjectID: "demo", NodeCount: 5}))

	got, err := b.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo", got.ProjectID)
	assert.Equal(t, 5, got.NodeCount)
}

func TestMetadataMissingReturnsNoIndexError(t *testing.T) {
	b := openBackend(t)
	_, err := b.Metadata(context.Background())
	require.Error(t, err)
}

func TestOpenTwiceSurfacesStorageLocked(t *testing.T) {
	dir := t.TempDir()
	b1, err := tabular.Open(tabular.Config{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b1.Close() })

	_, err = tabular.Open(tabular.Config{DataDir: dir})
	require.Error(t, err)
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}
