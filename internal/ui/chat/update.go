// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// chromeHeight is the number of rows taken by header, status and input.
const chromeHeight = 6

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EngineUpdateMsg:
		m.indicator.SetPhrase(m.session.StatusText())
		m.refreshViewport()
		return m, nil

	case turnDoneMsg:
		m.indicator.Stop()
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.indicator, cmd = m.indicator.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize lays out the viewport on first size and on every resize.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := msg.Height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 4
	m.refreshViewport()

	// A deep-linked prompt runs once the surface is laid out.
	if m.initialPrompt != "" {
		prompt := m.initialPrompt
		m.initialPrompt = ""
		return m, tea.Batch(m.indicator.Start(), func() tea.Msg {
			return turnDoneMsg{Err: m.session.RunInitialPrompt(context.Background(), prompt)}
		})
	}
	return m, nil
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+s":
		m.session.SetSearchEnabled(!m.session.SearchEnabled())
		return m, nil

	case "ctrl+n":
		if !m.session.InFlight() {
			m.session.StartNewConversation()
			m.refreshViewport()
		}
		return m, nil

	case "enter":
		return m.submit()

	case "pgup", "pgdown", "up", "down":
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the typed text as a turn. Input stays disabled-by-rejection
// while a turn is outstanding: the engine refuses re-entrant submits, so
// the text is simply kept in the box.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.session.InFlight() {
		return m, nil
	}
	m.input.Reset()

	session := m.session
	return m, tea.Batch(m.indicator.Start(), func() tea.Msg {
		return turnDoneMsg{Err: session.SubmitTurn(context.Background(), text)}
	})
}
