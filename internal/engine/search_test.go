// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"testing"
	"time"
)

func (t *SearchTracker) generation() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

func TestSearchTracker_FoundLifecycle(t *testing.T) {
	tr := NewSearchTracker()
	defer tr.Close()

	if tr.State() != SearchIdle {
		t.Fatalf("initial state = %v, want idle", tr.State())
	}

	tr.Begin("entropy")
	if tr.State() != SearchActive {
		t.Errorf("state after Begin = %v, want searching", tr.State())
	}
	if tr.Query() != "entropy" {
		t.Errorf("Query() = %q", tr.Query())
	}

	tr.Settle(SearchFound)
	if tr.State() != SearchFound {
		t.Errorf("state after Settle = %v, want found", tr.State())
	}

	// The delayed fall-back fires with the settlement's generation.
	tr.reset(tr.generation())
	if tr.State() != SearchIdle {
		t.Errorf("state after delayed reset = %v, want idle", tr.State())
	}
	if tr.Query() != "" {
		t.Errorf("Query() after reset = %q, want empty", tr.Query())
	}
}

func TestSearchTracker_ErrorOutcome(t *testing.T) {
	tr := NewSearchTracker()
	defer tr.Close()

	tr.Begin("entropy")
	tr.Settle(SearchError)
	if tr.State() != SearchError {
		t.Errorf("state = %v, want error", tr.State())
	}
}

func TestSearchTracker_SettleWithoutOutcomeKeepsSearching(t *testing.T) {
	tr := NewSearchTracker()
	defer tr.Close()

	// A successful turn whose search produced no sources: the display
	// stays on searching until the delayed reset.
	tr.Begin("entropy")
	tr.Settle(SearchActive)
	if tr.State() != SearchActive {
		t.Errorf("state = %v, want searching until reset", tr.State())
	}
	tr.reset(tr.generation())
	if tr.State() != SearchIdle {
		t.Errorf("state after reset = %v, want idle", tr.State())
	}
}

func TestSearchTracker_StaleResetIsNoOp(t *testing.T) {
	tr := NewSearchTracker()
	defer tr.Close()

	tr.Begin("first")
	tr.Settle(SearchFound)
	staleGen := tr.generation()

	// A new search begins before the old reset fires.
	tr.Begin("second")
	tr.reset(staleGen)
	if tr.State() != SearchActive {
		t.Errorf("stale reset changed state to %v, want searching preserved", tr.State())
	}
	if tr.Query() != "second" {
		t.Errorf("stale reset clobbered query: %q", tr.Query())
	}
}

func TestSearchTracker_SettleFoundWhenIdleIsNoOp(t *testing.T) {
	tr := NewSearchTracker()
	defer tr.Close()

	tr.Settle(SearchFound)
	if tr.State() != SearchIdle {
		t.Errorf("Settle(found) on idle tracker moved state to %v", tr.State())
	}
}

func TestSearchTracker_ErrorForcedFromIdle(t *testing.T) {
	tr := NewSearchTracker()
	defer tr.Close()

	// A failed turn shows the error indicator even when no search began.
	tr.Settle(SearchError)
	if tr.State() != SearchError {
		t.Errorf("state = %v, want error forced from idle", tr.State())
	}

	// The usual delayed fall-back applies.
	tr.reset(tr.generation())
	if tr.State() != SearchIdle {
		t.Errorf("state after delayed reset = %v, want idle", tr.State())
	}
}

func TestSearchTracker_FrameAdvancesWhileSearching(t *testing.T) {
	tr := NewSearchTracker()
	defer tr.Close()

	tr.Begin("entropy")
	if !tr.advanceFrame(tr.generation()) {
		t.Fatal("advanceFrame rejected the live generation")
	}
	if tr.Frame() != 1 {
		t.Errorf("Frame() = %d, want 1", tr.Frame())
	}

	stale := tr.generation()
	tr.Settle(SearchFound)
	if tr.advanceFrame(stale) {
		t.Error("advanceFrame accepted a tick after settlement")
	}
}

func TestSearchTracker_ResetTearsDownImmediately(t *testing.T) {
	tr := NewSearchTracker()
	tr.Begin("entropy")
	tr.Reset()
	if tr.State() != SearchIdle {
		t.Errorf("state after Reset = %v, want idle", tr.State())
	}
	tr.Close() // double teardown must not panic
}

func TestSearchTracker_LiveDelayedReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timer test in short mode")
	}
	tr := NewSearchTracker()
	defer tr.Close()

	tr.Begin("entropy")
	tr.Settle(SearchFound)
	time.Sleep(SearchResetDelay + 200*time.Millisecond)
	if tr.State() != SearchIdle {
		t.Errorf("state %v after reset delay, want idle", tr.State())
	}
}

func TestSearchStateString(t *testing.T) {
	cases := map[SearchState]string{
		SearchIdle:   "idle",
		SearchActive: "searching",
		SearchFound:  "found",
		SearchError:  "error",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
