// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// EngineUpdateMsg signals that engine state changed (new messages,
// rotator phrase, search status). The session's update callback sends it
// through the running program.
type EngineUpdateMsg struct{}

// turnDoneMsg reports that a submitted turn settled. Failures already
// live in the timeline as an assistant bubble; Err carries only
// submission-level rejections worth showing in the help line.
type turnDoneMsg struct {
	Err error
}
