// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for tutoring conversations.
package model

import (
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleSearchResults marks a message that carries web-search sources
	// rather than conversational text. Its Content is only a label; the
	// payload lives in Sources.
	RoleSearchResults Role = "search-results"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Tutor"
	case RoleSearchResults:
		return "Sources"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one of the three known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSearchResults:
		return true
	}
	return false
}

// =============================================================================
// SEARCH SOURCE TYPE
// =============================================================================

// SearchSource is one web-search citation attached to a search-results
// message.
type SearchSource struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Summary    string `json:"summary"`
	IsAcademic bool   `json:"is_academic,omitempty"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in a conversation timeline.
//
// IDs are integers assigned by the Timeline on append, strictly increasing
// within one conversation and never reused. A Message is immutable once
// appended.
type Message struct {
	ID        int       `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Sources is present only when Role is RoleSearchResults.
	Sources []SearchSource `json:"sources,omitempty"`
}

// NewUserMessage creates an unappended user message. The ID is assigned by
// Timeline.Append.
func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an unappended assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSearchResultsMessage creates an unappended search-results message
// carrying the given sources.
func NewSearchResultsMessage(sources []SearchSource) Message {
	return Message{
		Role:      RoleSearchResults,
		Content:   "Search Results:",
		Timestamp: time.Now(),
		Sources:   sources,
	}
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content and no sources.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0 && len(m.Sources) == 0
}
