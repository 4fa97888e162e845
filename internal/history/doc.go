// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package history persists conversations across sessions.

The Store keeps every conversation in memory and writes through to a
pluggable KV backend, one key per conversation id. Two backends ship:
FileKV (one JSON file per conversation, atomic write-and-rename) and
SQLiteKV (a single embedded database file).

# Key Types

  - Store: the conversation store; tracks at most one current conversation
  - Record: one persisted conversation (id, title, messages, created-at)
  - KV: the storage abstraction backends implement
  - FileKV / SQLiteKV: shipped backends

# Usage

	kv, err := history.NewFileKV(filepath.Join(home, ".tutorchat", "conversations"))
	if err != nil {
		return err
	}
	store := history.NewStore(kv, logger)

	store.SaveCurrent(timeline.All()) // no-op until a real exchange exists
	for _, rec := range store.List() {
		fmt.Println(rec.Title)
	}
	messages := store.Restore(rec.ID)

Saving a timeline that holds only the synthesized greeting is a no-op;
a conversation record is created on the first save that contains a real
exchange, and its id, title and creation time never change afterwards.
*/
package history
