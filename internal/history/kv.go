// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides durable persistence for named conversations.
package history

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/tutorchat-tui/internal/util"
)

// =============================================================================
// KEY-VALUE ABSTRACTION
// =============================================================================

// KV is the storage abstraction the conversation store writes through.
// Keys live in a single flat namespace owned by the store; values are
// opaque blobs. Implementations must make Set an atomic per-key upsert so
// concurrent writes to different keys never corrupt each other.
type KV interface {
	// Get returns the value for key. The second return is false when the
	// key does not exist.
	Get(key string) ([]byte, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists all stored keys, in no particular order.
	Keys() ([]string, error)

	// Close releases any resources held by the backend.
	Close() error
}

// =============================================================================
// FILE-BACKED KV
// =============================================================================

// fileExt is the suffix for file-backed entries.
const fileExt = ".json"

// FileKV stores each key as one JSON file in a directory. Writes go
// through an atomic write-and-rename, so a crash leaves either the old or
// the new complete value.
type FileKV struct {
	baseDir string
}

// NewFileKV creates a file-backed KV rooted at baseDir, creating the
// directory if needed.
func NewFileKV(baseDir string) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileKV{baseDir: baseDir}, nil
}

// BaseDir returns the backing directory.
func (f *FileKV) BaseDir() string {
	return f.baseDir
}

// Get returns the stored value for key, or found=false when absent.
func (f *FileKV) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set writes the value for key atomically.
func (f *FileKV) Set(key string, value []byte) error {
	return util.AtomicWriteFile(f.path(key), value, 0644)
}

// Delete removes the key's file. A missing file is not an error.
func (f *FileKV) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Keys lists the stored keys.
func (f *FileKV) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), fileExt))
	}
	return keys, nil
}

// Close is a no-op for the file backend.
func (f *FileKV) Close() error {
	return nil
}

// path returns the file path for a key.
func (f *FileKV) path(key string) string {
	return filepath.Join(f.baseDir, key+fileExt)
}
