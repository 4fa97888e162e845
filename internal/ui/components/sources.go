// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/tutorchat-tui/internal/engine"
	"github.com/jeranaias/tutorchat-tui/internal/model"
	"github.com/jeranaias/tutorchat-tui/internal/ui/styles"
)

// =============================================================================
// SOURCES BOX
// =============================================================================

// RenderSources renders the body of a search-results message: a numbered
// list of web sources with title, link and summary, academic sources
// flagged.
func RenderSources(theme *styles.Theme, sources []model.SearchSource, width int) string {
	if len(sources) == 0 {
		return theme.SourceSummary.Render("No sources found.")
	}
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, src := range sources {
		if i > 0 {
			b.WriteString("\n")
		}

		title := runewidth.Truncate(src.Title, width-6, "...")
		line := itoa(i+1) + ". " + theme.SourceTitle.Render(title)
		if src.IsAcademic {
			line += " " + theme.AcademicBadge.Render("[academic]")
		}
		b.WriteString(line)
		b.WriteString("\n   ")
		b.WriteString(theme.SourceLink.Render(runewidth.Truncate(src.Link, width-4, "...")))

		if src.Summary != "" {
			b.WriteString("\n   ")
			b.WriteString(theme.SourceSummary.Render(runewidth.Truncate(src.Summary, width-4, "...")))
		}
	}
	return b.String()
}

// =============================================================================
// SEARCH STATUS LINE
// =============================================================================

// searchFrames animates the searching indicator; advanced by the search
// tracker's frame counter.
var searchFrames = []string{".  ", ".. ", "...", " ..", "  ."}

// RenderSearchStatus renders the one-line web-search indicator for the
// given tracker state, or "" when idle.
func RenderSearchStatus(theme *styles.Theme, state engine.SearchState, frame int) string {
	switch state {
	case engine.SearchActive:
		dots := searchFrames[frame%len(searchFrames)]
		return theme.SearchActive.Render("Searching the web for relevant information" + dots)
	case engine.SearchFound:
		return theme.SearchFound.Render("Search results found")
	case engine.SearchError:
		return theme.SearchError.Render("Search failed")
	default:
		return ""
	}
}

// =============================================================================
// ROLE LABELS
// =============================================================================

// RenderRoleLabel renders the sender label above a message bubble.
func RenderRoleLabel(theme *styles.Theme, role model.Role, tutorName string) string {
	label := role.DisplayName()
	if role == model.RoleAssistant && tutorName != "" {
		label = tutorName
	}
	return theme.RoleLabel.Render(label)
}

// BubbleStyle returns the bubble style for a message role.
func BubbleStyle(theme *styles.Theme, role model.Role) lipgloss.Style {
	switch role {
	case model.RoleUser:
		return theme.UserBubble
	case model.RoleSearchResults:
		return theme.SourcesBubble
	default:
		return theme.TutorBubble
	}
}
