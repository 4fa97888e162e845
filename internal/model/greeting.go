// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// GenericGreeting is the opening message shown when no tutor profile is
// selected.
const GenericGreeting = "Welcome! I'm your AI Assistant. How can I help you today?"

// Teaching modes with dedicated greeting lines.
const (
	TeachingModeSocratic  = "Socratic"
	TeachingModePractical = "Practical"
)

// Greeting synthesizes the opening assistant message for a fresh
// conversation from the active tutor profile. The greeting is regenerated
// every time a conversation is reset; it is never a persisted identity of
// its own.
func Greeting(profile TutorProfile) string {
	if profile.IsZero() {
		return GenericGreeting
	}

	var modeLine string
	switch profile.TeachingMode {
	case TeachingModeSocratic:
		modeLine = "I believe in learning through questioning and discussion."
	case TeachingModePractical:
		modeLine = "I focus on practical, hands-on learning approaches."
	default:
		modeLine = "I'm here to guide you through your learning journey."
	}

	var sb strings.Builder
	sb.WriteString("Welcome to class! I'm Professor ")
	sb.WriteString(profile.Name)
	sb.WriteString(", and I'll be your instructor in ")
	sb.WriteString(profile.Field)
	sb.WriteString(". ")
	sb.WriteString(modeLine)
	sb.WriteString("\n\nFeel free to ask me any questions about ")
	sb.WriteString(profile.Field)
	sb.WriteString(", whether it's about course content, research guidance, or ")
	sb.WriteString(profile.AdviceType)
	sb.WriteString(" advice. Let's make this a productive learning session!")
	return sb.String()
}

// GreetingMessage builds the seed message for a fresh timeline.
func GreetingMessage(profile TutorProfile) Message {
	return NewAssistantMessage(Greeting(profile))
}
