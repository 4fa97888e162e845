// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutorchat-tui/internal/model"
	"github.com/jeranaias/tutorchat-tui/internal/ui/components"
)

// View renders the full chat surface.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.theme.InputPrompt.Render("> ") + m.input.View())
	b.WriteString("\n")
	b.WriteString(m.theme.HelpText.Render(
		"enter send • ctrl+s search toggle • ctrl+n new conversation • esc quit"))
	return b.String()
}

// renderHeader shows the tutor persona and the search toggle state.
func (m Model) renderHeader() string {
	profile := m.session.Profile()
	title := "tutorchat"
	if profile.Name != "" {
		title = "Professor " + profile.Name + " - " + profile.Field
	}

	search := "web search: off"
	if m.session.SearchEnabled() {
		search = "web search: on"
	}

	left := m.theme.HeaderTitle.Render(title)
	right := m.theme.HelpText.Render(search)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderStatus shows the generation indicator and the search status line.
func (m Model) renderStatus() string {
	parts := make([]string, 0, 2)
	if gen := m.indicator.View(); gen != "" {
		parts = append(parts, gen)
	}
	if search := components.RenderSearchStatus(m.theme, m.session.SearchStatus(), m.session.SearchFrame()); search != "" {
		parts = append(parts, search)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ")
}

// refreshViewport re-renders the transcript and follows the newest
// message.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// renderMessages renders the timeline as labeled bubbles.
func (m *Model) renderMessages() string {
	messages := m.session.Messages()
	tutorName := m.session.Profile().Name

	bubbleWidth := m.width - 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(components.RenderRoleLabel(m.theme, msg.Role, tutorName))
		b.WriteString(" ")
		b.WriteString(m.theme.Timestamp.Render(msg.Timestamp.Format("15:04")))
		b.WriteString("\n")

		content := m.renderContent(msg, bubbleWidth)
		bubble := components.BubbleStyle(m.theme, msg.Role).MaxWidth(bubbleWidth)
		b.WriteString(bubble.Render(content))
		b.WriteString("\n")
	}
	return b.String()
}

// renderContent picks the body rendering per role: markdown for tutor
// answers, the sources list for search results, plain text for the user.
func (m *Model) renderContent(msg model.Message, width int) string {
	switch msg.Role {
	case model.RoleSearchResults:
		return components.RenderSources(m.theme, msg.Sources, width)
	case model.RoleAssistant:
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(msg.Content); err == nil {
				return strings.TrimSpace(rendered)
			}
		}
		return msg.Content
	default:
		return msg.Content
	}
}
