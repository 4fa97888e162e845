// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/tutorchat-tui/internal/model"
	"github.com/jeranaias/tutorchat-tui/internal/util"
)

// TitleMaxRunes bounds the derived conversation title.
const TitleMaxRunes = 50

// ErrNotFound is returned when a conversation id does not exist.
var ErrNotFound = errors.New("conversation not found")

// =============================================================================
// RECORD TYPE
// =============================================================================

// Record is one persisted conversation.
//
// ID, Title and CreatedAt are assigned on the first qualifying save and are
// immutable thereafter; only Messages is overwritten by later saves. IDs
// are never reused, even after deletion.
type Record struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []model.Message `json:"messages"`
	CreatedAt time.Time       `json:"createdAt"`
}

// clone returns a deep-enough copy: the message slice is copied so callers
// cannot mutate stored state through the returned record.
func (r Record) clone() Record {
	messages := make([]model.Message, len(r.Messages))
	copy(messages, r.Messages)
	r.Messages = messages
	return r
}

// =============================================================================
// STORE
// =============================================================================

// Store is the conversation persistence store. It keeps every record in
// memory and writes through to the injected KV backend, one key per
// conversation id, so saves of different conversations never race on a
// shared blob.
//
// A Store tracks at most one "current" conversation: SaveCurrent updates
// the tracked record, or creates a new record (and starts tracking it)
// when none is tracked yet. Greeting-only timelines are never persisted.
type Store struct {
	mu      sync.Mutex
	kv      KV
	logger  *log.Logger
	records map[string]Record
	tracked string // id of the currently tracked conversation, "" when none
}

// NewStore creates a store over the given backend and rehydrates all
// records from it. Malformed entries are skipped with a log line; a
// missing or empty backend yields an empty store, never an error.
func NewStore(kv KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		kv:      kv,
		logger:  logger,
		records: make(map[string]Record),
	}
	s.rehydrate()
	return s
}

// rehydrate loads every record from the backend into memory. JSON decoding
// restores the serialized timestamps back into time.Time values.
func (s *Store) rehydrate() {
	keys, err := s.kv.Keys()
	if err != nil {
		s.logger.Printf("history: failed to list stored conversations: %v", err)
		return
	}

	for _, key := range keys {
		data, found, err := s.kv.Get(key)
		if err != nil || !found {
			if err != nil {
				s.logger.Printf("history: failed to read conversation %s: %v", key, err)
			}
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil || rec.ID == "" {
			// Skip corrupted entries rather than failing startup.
			s.logger.Printf("history: skipping malformed conversation %s", key)
			continue
		}
		s.records[rec.ID] = rec
	}
}

// =============================================================================
// SAVE
// =============================================================================

// SaveCurrent persists the given timeline snapshot.
//
// It is a no-op when the snapshot holds only the synthesized greeting.
// The first qualifying save with no tracked conversation creates a new
// record (fresh id, title derived from the first user message, CreatedAt
// now) and tracks it; subsequent saves overwrite the tracked record's
// Messages only.
//
// Persistence failures are logged, not returned: the in-memory state stays
// authoritative and the user keeps chatting.
func (s *Store) SaveCurrent(messages []model.Message) {
	if len(messages) <= 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracked == "" {
		rec := Record{
			ID:        uuid.NewString(),
			Title:     deriveTitle(messages),
			Messages:  snapshot(messages),
			CreatedAt: time.Now(),
		}
		s.records[rec.ID] = rec
		s.tracked = rec.ID
		s.persist(rec)
		return
	}

	rec, ok := s.records[s.tracked]
	if !ok {
		// Tracked record vanished (deleted elsewhere); behave like a fresh
		// conversation rather than resurrecting the deleted id.
		s.tracked = ""
		s.mu.Unlock()
		s.SaveCurrent(messages)
		s.mu.Lock()
		return
	}

	rec.Messages = snapshot(messages)
	s.records[rec.ID] = rec
	s.persist(rec)
}

// Upsert overwrites the Messages of an existing record, keyed by id. Used
// when a turn settles for a conversation that is no longer the tracked
// one: the result is applied to the conversation it was issued against.
// Unknown ids are dropped silently (the conversation was deleted).
func (s *Store) Upsert(id string, messages []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		s.logger.Printf("history: dropping save for deleted conversation %s", id)
		return
	}
	rec.Messages = snapshot(messages)
	s.records[id] = rec
	s.persist(rec)
}

// persist writes one record through to the backend. Caller holds s.mu.
func (s *Store) persist(rec Record) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		s.logger.Printf("history: failed to encode conversation %s: %v", rec.ID, err)
		return
	}
	if err := s.kv.Set(rec.ID, data); err != nil {
		s.logger.Printf("history: failed to write conversation %s: %v", rec.ID, err)
	}
}

// =============================================================================
// LIST / RESTORE
// =============================================================================

// List returns all records, most recently created first.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get returns a single record by id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Restore returns the message list of the record verbatim, including its
// historical ids, and marks the conversation as tracked so later saves
// update it in place. A non-existent id yields an empty message list and
// leaves nothing tracked.
func (s *Store) Restore(id string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		s.tracked = ""
		return []model.Message{}
	}
	s.tracked = id
	return snapshot(rec.Messages)
}

// =============================================================================
// POINTER MANAGEMENT
// =============================================================================

// StartNew clears the tracked-conversation pointer. Stored records are
// untouched; the next qualifying save creates a fresh record. Calling it
// repeatedly is idempotent.
func (s *Store) StartNew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked = ""
}

// TrackedID returns the id of the currently tracked conversation, or ""
// when none is tracked.
func (s *Store) TrackedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracked
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a record. Deleting the tracked conversation clears the
// pointer, so the next qualifying save creates a new record instead of
// resurrecting the deleted one.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	if s.tracked == id {
		s.tracked = ""
	}
	if err := s.kv.Delete(id); err != nil {
		s.logger.Printf("history: failed to delete conversation %s: %v", id, err)
	}
	return nil
}

// Clear removes every stored record and clears the tracked pointer.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.records {
		if err := s.kv.Delete(id); err != nil {
			s.logger.Printf("history: failed to delete conversation %s: %v", id, err)
		}
	}
	s.records = make(map[string]Record)
	s.tracked = ""
}

// =============================================================================
// HELPERS
// =============================================================================

// deriveTitle builds the record title from the first user message,
// flattened to one line and rune-truncated with an ellipsis. The result is
// deterministic for a given message list and fixed once assigned.
func deriveTitle(messages []model.Message) string {
	for _, msg := range messages {
		if msg.Role == model.RoleUser && msg.Content != "" {
			return util.TruncateRunes(util.CollapseWhitespace(msg.Content), TitleMaxRunes)
		}
	}
	return "New conversation"
}

// snapshot copies a message slice so stored state and live timelines never
// alias.
func snapshot(messages []model.Message) []model.Message {
	out := make([]model.Message, len(messages))
	copy(out, messages)
	return out
}
