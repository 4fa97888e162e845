// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"os"
	"path/filepath"
	"testing"
)

// backends under test, constructed fresh per subtest.
func testBackends(t *testing.T) map[string]KV {
	t.Helper()

	fileKV, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	sqliteKV, err := NewSQLiteKV(filepath.Join(t.TempDir(), "conversations.db"))
	if err != nil {
		t.Fatalf("NewSQLiteKV failed: %v", err)
	}

	return map[string]KV{
		"file":   fileKV,
		"sqlite": sqliteKV,
	}
}

func TestKV_RoundTrip(t *testing.T) {
	for name, kv := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			if _, found, err := kv.Get("missing"); err != nil || found {
				t.Errorf("Get(missing) = found=%v err=%v, want absent", found, err)
			}

			if err := kv.Set("a", []byte(`{"v":1}`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			data, found, err := kv.Get("a")
			if err != nil || !found {
				t.Fatalf("Get(a) = found=%v err=%v", found, err)
			}
			if string(data) != `{"v":1}` {
				t.Errorf("Get(a) = %q", data)
			}

			// Set is an upsert: a second write replaces the value.
			if err := kv.Set("a", []byte(`{"v":2}`)); err != nil {
				t.Fatalf("Set(overwrite) failed: %v", err)
			}
			data, _, _ = kv.Get("a")
			if string(data) != `{"v":2}` {
				t.Errorf("after overwrite Get(a) = %q", data)
			}

			if err := kv.Set("b", []byte(`{}`)); err != nil {
				t.Fatalf("Set(b) failed: %v", err)
			}
			keys, err := kv.Keys()
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if len(keys) != 2 {
				t.Errorf("len(Keys) = %d, want 2 (%v)", len(keys), keys)
			}

			if err := kv.Delete("a"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, found, _ := kv.Get("a"); found {
				t.Error("key a still present after Delete")
			}
			// Deleting a missing key is not an error.
			if err := kv.Delete("a"); err != nil {
				t.Errorf("Delete(missing) = %v, want nil", err)
			}
		})
	}
}

func TestFileKV_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	if err := kv.Set("real", []byte(`{}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	keys, err := kv.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "real" {
		t.Errorf("Keys = %v, want [real]", keys)
	}
}
