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

// Package checkpoint tracks per-file content checksums across ingestion
// runs so a second `analyze` only re-parses and re-extracts files whose
// content actually changed; the repository walk itself still covers
// every path, since new and deleted files have to be noticed. An
// unchanged file's previously persisted symbols and relationships are
// reloaded from storage instead. Before re-inserting a changed file's
// symbols, the pipeline removes the file's own stale nodes first via
// the graph's RemoveNodesByFile.
//
// Checksums are kept in an embedded BadgerDB store rather than a single
// JSON sidecar (the teacher's CheckpointManager uses a JSON file) because
// badger gives crash-safe, incremental single-key updates without
// rewriting the whole checkpoint on every file — a better fit once a
// repository has tens of thousands of files.
package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"

	badger "github.com/dgraph-io/badger/v4"

	graphkiterrors "github.com/kraklabs/graphkit/internal/errors"
)

// Store persists file checksums for one repository's incremental
// ingestion state.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) the badger store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, graphkiterrors.NewStorageUnavailableError("cannot open checkpoint store at "+dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying badger store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Checksum returns the sha256 hex digest of content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Changed reports whether filePath's content differs from the checksum
// recorded on the previous run (or has never been seen before). It does
// not update the stored checksum; call Record after the file has been
// successfully re-extracted.
func (s *Store) Changed(filePath string, content []byte) (bool, error) {
	want := Checksum(content)
	got, ok, err := s.get(filePath)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return got != want, nil
}

// Record stores filePath's current checksum, superseding any prior
// value. Call this only after the file's nodes have been (re)inserted
// into the graph, so a crash between extraction and commit is observed
// as "changed" again on the next run rather than silently skipped.
func (s *Store) Record(filePath string, content []byte) error {
	return s.set(filePath, Checksum(content))
}

// Forget removes filePath's stored checksum, e.g. when the file has
// been deleted from the repository.
func (s *Store) Forget(filePath string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(filePath))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// KnownFiles returns every file path this store has a checksum for.
func (s *Store) KnownFiles() ([]string, error) {
	var paths []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			paths = append(paths, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return paths, err
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, graphkiterrors.NewStorageUnavailableError("checkpoint read failed", err)
	}
	return value, found, nil
}

func (s *Store) set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return graphkiterrors.NewStorageUnavailableError("checkpoint write failed", err)
	}
	return nil
}
