// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the bubbletea chat surface.

The model is deliberately thin: conversation state, turn sequencing and
persistence live in the engine session, and the session's update callback
feeds EngineUpdateMsg back into the program. The view renders whatever
the session reports, so engine tests cover correctness and this package
stays cosmetic.

Key bindings: enter submits, ctrl+s toggles web search, ctrl+n starts a
new conversation, esc or ctrl+c quits.
*/
package chat
