// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package engine orchestrates tutoring turns.

A Session owns one live conversation timeline and runs the full turn
sequence: optimistic user append, one outbound answer call, terminal
message(s), persistence. At most one turn is in flight; a second submit
is rejected with ErrTurnInFlight rather than queued.

Two display-only companions ride along: StatusRotator cycles progress
phrases while a turn is generating, and SearchTracker drives the web
search indicator through idle -> searching -> found/error -> idle. Both
guard their timers with generation counters, so a tick or delayed reset
that fires after its owner moved on changes nothing.

Turns are tagged with the session epoch at submit time. When the user
switches conversations mid-flight, the late result is applied to the
timeline it was issued against and persisted under that conversation's
id; the conversation on screen never receives another conversation's
answer.

# Key Types

  - Session: the turn orchestrator
  - Options: session wiring (client, store, profile, toggles)
  - StatusRotator: rotating progress phrases
  - SearchTracker: search status display state

# Usage

	session := engine.NewSession(engine.Options{
		Client:  client,
		Store:   store,
		Profile: profile,
	})
	defer session.Close()

	session.SetOnUpdate(func() { program.Send(refreshMsg{}) })
	go session.SubmitTurn(ctx, "Explain entropy")
*/
package engine
