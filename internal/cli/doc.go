// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the tutorchat command line: argument parsing and
the non-TUI command handlers.

Commands:

  - ask: one-shot question, answer printed and persisted
  - chat: plain line-mode REPL with input history (liner)
  - sessions: list/show/export/delete/clear saved conversations
  - config: show effective configuration
  - version / help

The TUI itself lives in internal/ui; main routes between the two based
on the parsed command and terminal capability.
*/
package cli
