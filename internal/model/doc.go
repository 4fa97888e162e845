// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for tutoring conversations.
//
// This package defines the core domain types used throughout the
// application: the conversation timeline, messages with their three roles
// (user, assistant, search-results), web-search sources, and the tutor
// profile that shapes greetings and backend routing.
//
// # Key Types
//
//   - Timeline: Append-only message sequence for one conversation
//   - Message: Single entry with integer id, role, content, timestamp
//   - SearchSource: One web-search citation on a search-results message
//   - TutorProfile: Persona and model configuration for a conversation
//
// # Usage
//
// Create a fresh timeline and append a user message:
//
//	tl := model.NewTimeline(profile)
//	id := tl.Append(model.NewUserMessage("Explain entropy"))
//
// Message ids are assigned on append, strictly increasing within one
// conversation, and never reused.
package model
