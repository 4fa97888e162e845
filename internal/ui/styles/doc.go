// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the tutorchat TUI:
an adaptive color palette and a Theme bundling the lipgloss styles used
by the chat surface. Terminal capability is detected once via termenv.
*/
package styles
