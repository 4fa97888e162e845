// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI pieces for the tutorchat TUI:
the answer-generation indicator (spinner plus rotating status phrase),
the rendered web-source list, the search status line, and the per-role
bubble styling helpers.
*/
package components
