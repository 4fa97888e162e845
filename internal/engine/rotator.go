// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"sync"
	"time"
)

// RotateInterval is how long each status phrase is shown.
const RotateInterval = 2 * time.Second

// statusPhrases is the fixed progress vocabulary shown while an answer is
// being generated, in display order.
var statusPhrases = []string{
	"Analyzing your question...",
	"Researching relevant information...",
	"Formulating a comprehensive response...",
	"Polishing the answer...",
}

// =============================================================================
// STATUS ROTATOR
// =============================================================================

// StatusRotator cycles through the progress phrases while a turn is in
// flight. It is purely cosmetic: it never touches the timeline.
//
// Each Start bumps an internal generation; a tick from a previous
// generation's ticker is a no-op, so a phrase can never flash after Stop.
type StatusRotator struct {
	mu       sync.Mutex
	phrases  []string
	interval time.Duration
	index    int
	running  bool
	gen      int
	done     chan struct{}
	onChange func(phrase string)
}

// NewStatusRotator creates a rotator over the standard phrase list.
func NewStatusRotator() *StatusRotator {
	return &StatusRotator{
		phrases:  statusPhrases,
		interval: RotateInterval,
	}
}

// WithInterval overrides the rotation interval (used by tests).
func (r *StatusRotator) WithInterval(d time.Duration) *StatusRotator {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d > 0 {
		r.interval = d
	}
	return r
}

// SetOnChange registers a callback fired with the new phrase on every
// rotation, including the first phrase on Start. The callback runs without
// the rotator lock held.
func (r *StatusRotator) SetOnChange(fn func(phrase string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Start begins rotation from the first phrase. Starting an already-running
// rotator restarts it from the beginning.
func (r *StatusRotator) Start() {
	r.mu.Lock()
	if r.running {
		close(r.done)
	}
	r.running = true
	r.gen++
	r.index = 0
	r.done = make(chan struct{})
	gen, done, interval := r.gen, r.done, r.interval
	notify := r.onChange
	phrase := r.phrases[0]
	r.mu.Unlock()

	if notify != nil {
		notify(phrase)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !r.advance(gen) {
					return
				}
			}
		}
	}()
}

// Stop halts rotation and releases the ticker. Stopping a stopped rotator
// is a no-op.
func (r *StatusRotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	r.gen++
	close(r.done)
}

// Running reports whether the rotator is active.
func (r *StatusRotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Current returns the phrase currently on display, or "" when stopped.
func (r *StatusRotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return ""
	}
	return r.phrases[r.index]
}

// advance moves to the next phrase with wraparound. It returns false when
// gen no longer matches the rotator's generation, which makes ticks from
// superseded tickers inert.
func (r *StatusRotator) advance(gen int) bool {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return false
	}
	r.index = (r.index + 1) % len(r.phrases)
	phrase := r.phrases[r.index]
	notify := r.onChange
	r.mu.Unlock()

	if notify != nil {
		notify(phrase)
	}
	return true
}
