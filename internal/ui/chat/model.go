// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the bubbletea chat surface for tutorchat.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/tutorchat-tui/internal/engine"
	"github.com/jeranaias/tutorchat-tui/internal/ui/components"
	"github.com/jeranaias/tutorchat-tui/internal/ui/styles"
)

// Model is the bubbletea model for the chat surface. All conversation
// state lives in the engine session; the model only renders it and
// forwards input.
type Model struct {
	theme   *styles.Theme
	session *engine.Session

	input     textinput.Model
	viewport  viewport.Model
	indicator components.GeneratingIndicator
	renderer  *glamour.TermRenderer

	width  int
	height int
	ready  bool

	// initialPrompt is submitted once the first frame has been laid out.
	initialPrompt string
}

// New creates the chat model over an engine session.
func New(theme *styles.Theme, session *engine.Session, initialPrompt string) Model {
	input := textinput.New()
	input.Placeholder = "Ask your tutor anything..."
	input.CharLimit = 4000
	input.Focus()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer = nil // fall back to plain text
	}

	return Model{
		theme:         theme,
		session:       session,
		input:         input,
		indicator:     components.NewGeneratingIndicator(),
		renderer:      renderer,
		initialPrompt: initialPrompt,
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}
