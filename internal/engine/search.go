// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"sync"
	"time"
)

// Timing constants for the search status display.
const (
	// SearchFrameInterval advances the cosmetic searching animation.
	SearchFrameInterval = 500 * time.Millisecond

	// SearchResetDelay is how long a settled status (found or error)
	// stays visible before falling back to idle.
	SearchResetDelay = 2 * time.Second
)

// SearchState is the display state of the web-search status indicator.
type SearchState int

const (
	SearchIdle SearchState = iota
	SearchActive
	SearchFound
	SearchError
)

// String returns the state name.
func (s SearchState) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchActive:
		return "searching"
	case SearchFound:
		return "found"
	case SearchError:
		return "error"
	default:
		return "unknown"
	}
}

// =============================================================================
// SEARCH TRACKER
// =============================================================================

// SearchTracker drives the search status indicator through
// idle -> searching -> found/error -> idle. It is display-only state: it
// never unwinds or reorders appended messages, and it is never persisted.
//
// The delayed fall-back to idle and the animation ticker both carry a
// generation counter; a timer that fires after a new search began (or after
// Close) is a no-op.
type SearchTracker struct {
	mu       sync.Mutex
	state    SearchState
	query    string
	frame    int
	gen      int
	done     chan struct{} // closes when the animation ticker must exit
	onChange func()
}

// NewSearchTracker creates an idle tracker.
func NewSearchTracker() *SearchTracker {
	return &SearchTracker{state: SearchIdle}
}

// SetOnChange registers a callback fired on every visible change. It runs
// without the tracker lock held.
func (t *SearchTracker) SetOnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// State returns the current display state.
func (t *SearchTracker) State() SearchState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Query returns the query text of the search being tracked, or "" when
// idle.
func (t *SearchTracker) Query() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}

// Frame returns the animation frame counter, advancing while searching.
func (t *SearchTracker) Frame() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame
}

// Begin moves the tracker to searching for the given query and starts the
// animation ticker. Any pending reset from an earlier search is
// invalidated.
func (t *SearchTracker) Begin(query string) {
	t.mu.Lock()
	t.stopTickerLocked()
	t.state = SearchActive
	t.query = query
	t.frame = 0
	t.gen++
	t.done = make(chan struct{})
	gen, done := t.gen, t.done
	notify := t.onChange
	t.mu.Unlock()

	if notify != nil {
		notify()
	}

	go func() {
		ticker := time.NewTicker(SearchFrameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !t.advanceFrame(gen) {
					return
				}
			}
		}
	}()
}

// Settle records the outcome of a turn and schedules the fall-back to
// idle. outcome is SearchFound, SearchError, or SearchActive to leave the
// current display unchanged until the reset fires (a successful turn
// whose search produced no sources). SearchError takes effect even from
// idle, since a failed turn shows the error indicator whether or not a
// search was begun; other outcomes on an idle tracker are no-ops.
func (t *SearchTracker) Settle(outcome SearchState) {
	t.mu.Lock()
	if t.state == SearchIdle && outcome != SearchError {
		t.mu.Unlock()
		return
	}
	t.stopTickerLocked()
	if outcome == SearchFound || outcome == SearchError {
		t.state = outcome
	}
	t.gen++
	gen := t.gen
	notify := t.onChange
	t.mu.Unlock()

	if notify != nil {
		notify()
	}

	time.AfterFunc(SearchResetDelay, func() {
		t.reset(gen)
	})
}

// Reset forces the tracker back to idle immediately, invalidating any
// pending timers. Used on conversation switch and teardown.
func (t *SearchTracker) Reset() {
	t.mu.Lock()
	t.stopTickerLocked()
	t.gen++
	changed := t.state != SearchIdle
	t.state = SearchIdle
	t.query = ""
	t.frame = 0
	notify := t.onChange
	t.mu.Unlock()

	if changed && notify != nil {
		notify()
	}
}

// Close tears the tracker down.
func (t *SearchTracker) Close() {
	t.Reset()
}

// reset is the delayed fall-back to idle. A reset whose generation has
// been superseded by a newer Begin or Settle is a no-op.
func (t *SearchTracker) reset(gen int) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.state = SearchIdle
	t.query = ""
	t.frame = 0
	notify := t.onChange
	t.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// advanceFrame bumps the animation counter; false when gen is stale.
func (t *SearchTracker) advanceFrame(gen int) bool {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return false
	}
	t.frame++
	notify := t.onChange
	t.mu.Unlock()

	if notify != nil {
		notify()
	}
	return true
}

// stopTickerLocked closes the animation ticker channel if one is running.
// Caller holds t.mu.
func (t *SearchTracker) stopTickerLocked() {
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}
