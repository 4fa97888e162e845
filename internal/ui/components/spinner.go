// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the tutorchat TUI.
package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutorchat-tui/internal/ui/styles"
)

// =============================================================================
// GENERATING INDICATOR
// =============================================================================

// GeneratingIndicator shows the answer-generation progress line: an ASCII
// spinner next to the current status phrase, with elapsed time.
type GeneratingIndicator struct {
	spinner   spinner.Model
	phrase    string
	startTime time.Time
	active    bool
}

// NewGeneratingIndicator creates an indicator with ASCII-safe frames.
func NewGeneratingIndicator() GeneratingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return GeneratingIndicator{spinner: s}
}

// Start activates the indicator and records the start time.
func (g *GeneratingIndicator) Start() tea.Cmd {
	g.active = true
	g.startTime = time.Now()
	return g.spinner.Tick
}

// Stop deactivates the indicator.
func (g *GeneratingIndicator) Stop() {
	g.active = false
	g.phrase = ""
}

// IsActive reports whether the indicator is running.
func (g *GeneratingIndicator) IsActive() bool {
	return g.active
}

// SetPhrase updates the status phrase shown next to the spinner.
func (g *GeneratingIndicator) SetPhrase(phrase string) {
	g.phrase = phrase
}

// Update handles spinner ticks.
func (g GeneratingIndicator) Update(msg tea.Msg) (GeneratingIndicator, tea.Cmd) {
	if !g.active {
		return g, nil
	}
	var cmd tea.Cmd
	g.spinner, cmd = g.spinner.Update(msg)
	return g, cmd
}

// View renders the indicator, or "" when inactive.
func (g GeneratingIndicator) View() string {
	if !g.active {
		return ""
	}

	spin := lipgloss.NewStyle().Foreground(styles.Purple).Render(g.spinner.View())
	phrase := g.phrase
	if phrase == "" {
		phrase = "Thinking..."
	}
	text := lipgloss.NewStyle().Foreground(styles.TextSecondary).Italic(true).Render(phrase)

	result := spin + " " + text
	if !g.startTime.IsZero() {
		elapsed := int(time.Since(g.startTime).Seconds())
		timer := lipgloss.NewStyle().Foreground(styles.TextMuted).
			Render(" (" + formatSeconds(elapsed) + ")")
		result += timer
	}
	return result
}

// formatSeconds formats an elapsed-seconds count as "12s" or "2m 05s".
func formatSeconds(seconds int) string {
	if seconds < 60 {
		return itoa(seconds) + "s"
	}
	mins, secs := seconds/60, seconds%60
	padded := itoa(secs)
	if secs < 10 {
		padded = "0" + padded
	}
	return itoa(mins) + "m " + padded + "s"
}

// itoa converts a non-negative int to string without fmt.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
