// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the chat surface. It detects the
// terminal's color capability once at startup.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	// Message bubbles
	UserBubble    lipgloss.Style
	TutorBubble   lipgloss.Style
	SourcesBubble lipgloss.Style
	RoleLabel     lipgloss.Style
	Timestamp     lipgloss.Style

	// Status line
	StatusText   lipgloss.Style
	SearchActive lipgloss.Style
	SearchFound  lipgloss.Style
	SearchError  lipgloss.Style

	// Input area
	InputPrompt lipgloss.Style
	HelpText    lipgloss.Style

	// Sources box
	SourceTitle   lipgloss.Style
	SourceLink    lipgloss.Style
	SourceSummary lipgloss.Style
	AcademicBadge lipgloss.Style
}

// NewTheme builds the theme for the current terminal.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}

	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Foreground(Purple).Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.TutorBubble = lipgloss.NewStyle().
		Foreground(TutorBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(TutorBubbleBorder).
		Padding(0, 1)
	t.SourcesBubble = lipgloss.NewStyle().
		Foreground(SourcesBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(SourcesBubbleBorder).
		Padding(0, 1)
	t.RoleLabel = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.StatusText = lipgloss.NewStyle().Foreground(Purple).Italic(true)
	t.SearchActive = lipgloss.NewStyle().Foreground(Blue)
	t.SearchFound = lipgloss.NewStyle().Foreground(Emerald)
	t.SearchError = lipgloss.NewStyle().Foreground(Rose)

	t.InputPrompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.HelpText = lipgloss.NewStyle().Foreground(TextMuted)

	t.SourceTitle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.SourceLink = lipgloss.NewStyle().Foreground(Cyan).Underline(true)
	t.SourceSummary = lipgloss.NewStyle().Foreground(TextSecondary)
	t.AcademicBadge = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	return t
}
