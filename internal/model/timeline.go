// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TIMELINE TYPE
// =============================================================================

// Timeline is the ordered, append-only sequence of messages for one
// conversation.
//
// Append assigns ids as max(existing)+1 (1 when empty), so ids are strictly
// increasing with no gaps relative to insertion order and are never reused,
// even across error paths. Entries are never mutated after append.
//
// Timeline is not safe for concurrent use on its own; the session engine
// serializes access.
type Timeline struct {
	messages []Message
}

// NewTimeline creates a timeline seeded with the greeting for the given
// profile. The greeting always carries id 1.
func NewTimeline(profile TutorProfile) *Timeline {
	t := &Timeline{}
	t.Append(GreetingMessage(profile))
	return t
}

// NewTimelineFromMessages creates a timeline from a restored snapshot,
// preserving the historical ids verbatim. Further appends continue from the
// highest restored id.
func NewTimelineFromMessages(messages []Message) *Timeline {
	t := &Timeline{messages: make([]Message, len(messages))}
	copy(t.messages, messages)
	return t
}

// Append assigns the next id to msg, inserts it at the end, and returns the
// assigned id. Existing entries are never reordered.
func (t *Timeline) Append(msg Message) int {
	msg.ID = t.nextID()
	t.messages = append(t.messages, msg)
	return msg.ID
}

// Reset discards the current messages and reseeds the timeline with exactly
// one greeting message, id 1.
func (t *Timeline) Reset(profile TutorProfile) {
	t.messages = nil
	t.Append(GreetingMessage(profile))
}

// All returns a copy of the messages in order.
func (t *Timeline) All() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Timeline) Len() int {
	return len(t.messages)
}

// Last returns the most recent message and true, or a zero Message and
// false when the timeline is empty.
func (t *Timeline) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// FirstUserMessage returns the first user-role message and true, or false
// if no user message has been appended yet.
func (t *Timeline) FirstUserMessage() (Message, bool) {
	for _, msg := range t.messages {
		if msg.Role == RoleUser {
			return msg, true
		}
	}
	return Message{}, false
}

// HasExchange reports whether the timeline holds more than the synthesized
// greeting, i.e. at least one real exchange worth persisting.
func (t *Timeline) HasExchange() bool {
	return len(t.messages) > 1
}

// nextID computes the next message id: max of existing ids plus one, or 1
// for an empty timeline. Scanning for the max (rather than len+1) keeps ids
// monotonic even for restored snapshots with historical ids.
func (t *Timeline) nextID() int {
	max := 0
	for _, msg := range t.messages {
		if msg.ID > max {
			max = msg.ID
		}
	}
	return max + 1
}
