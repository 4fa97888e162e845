// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jeranaias/tutorchat-tui/internal/history"
	"github.com/jeranaias/tutorchat-tui/internal/model"
	"github.com/jeranaias/tutorchat-tui/internal/tutor"
)

// Sentinel errors returned by SubmitTurn.
var (
	// ErrEmptyInput indicates the submitted text was empty after trimming.
	ErrEmptyInput = errors.New("empty input")

	// ErrTurnInFlight indicates a turn is already outstanding; the caller
	// must wait for it to settle.
	ErrTurnInFlight = errors.New("a turn is already in progress")
)

// =============================================================================
// SESSION
// =============================================================================

// Session orchestrates one tutoring conversation: it owns the live
// timeline, drives the status rotator and search tracker, performs the
// outbound answer call, and persists qualifying snapshots through the
// history store.
//
// All session state is guarded by one mutex. The only blocking region is
// the outbound HTTP call, which runs outside the lock, so reads (Messages,
// InFlight, status accessors) never stall behind a slow backend. At most
// one turn is in flight at a time.
type Session struct {
	mu sync.Mutex

	client *tutor.Client
	store  *history.Store
	logger *log.Logger

	timeline      *model.Timeline
	profile       model.TutorProfile
	searchEnabled bool

	rotator *StatusRotator
	tracker *SearchTracker

	inFlight bool

	// epoch identifies which conversation the session currently fronts.
	// It is bumped on every switch or reset; a turn settling under a
	// stale epoch is applied to the conversation it was issued against,
	// never to the current one.
	epoch int

	// initialDone latches RunInitialPrompt to at most one invocation.
	initialDone bool
	echoInitial bool

	onUpdate func()
}

// Options configures a Session.
type Options struct {
	// Client talks to the answer-generation backend. Required.
	Client *tutor.Client

	// Store persists conversations. Required.
	Store *history.Store

	// Profile is the active tutor persona. A zero profile selects the
	// generic greeting and fallback persona.
	Profile model.TutorProfile

	// SearchEnabled is the initial state of the web-search toggle.
	SearchEnabled bool

	// EchoInitialPrompt controls whether RunInitialPrompt shows the
	// prompt as a user bubble. Off, the answer appears directly under
	// the greeting.
	EchoInitialPrompt bool

	// Logger receives background errors. Defaults to log.Default().
	Logger *log.Logger
}

// NewSession creates a session fronting a fresh conversation: a timeline
// seeded with the profile's greeting, nothing persisted yet.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		client:        opts.Client,
		store:         opts.Store,
		logger:        logger,
		timeline:      model.NewTimeline(opts.Profile),
		profile:       opts.Profile,
		searchEnabled: opts.SearchEnabled,
		echoInitial:   opts.EchoInitialPrompt,
		rotator:       NewStatusRotator(),
		tracker:       NewSearchTracker(),
	}
}

// SetOnUpdate registers a callback fired whenever visible state changes:
// new messages, rotator phrases, search status. The callback runs without
// the session lock held and must not call back into mutating session
// methods.
func (s *Session) SetOnUpdate(fn func()) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
	s.rotator.SetOnChange(func(string) { fn() })
	s.tracker.SetOnChange(fn)
}

// notify fires the update callback, if any.
func (s *Session) notify() {
	s.mu.Lock()
	fn := s.onUpdate
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the live timeline.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.All()
}

// InFlight reports whether a turn is outstanding.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Profile returns the active tutor profile.
func (s *Session) Profile() model.TutorProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SetProfile switches the active tutor persona. When the conversation has
// not started yet, the greeting is regenerated for the new persona;
// otherwise existing messages are kept and the new persona applies to
// future turns.
func (s *Session) SetProfile(profile model.TutorProfile) {
	s.mu.Lock()
	s.profile = profile
	if !s.timeline.HasExchange() {
		s.timeline.Reset(profile)
	}
	s.mu.Unlock()
	s.notify()
}

// SearchEnabled reports the state of the web-search toggle.
func (s *Session) SearchEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchEnabled
}

// SetSearchEnabled flips the web-search toggle. The value is sampled at
// submit time; flipping it mid-turn does not affect the outstanding turn.
func (s *Session) SetSearchEnabled(enabled bool) {
	s.mu.Lock()
	s.searchEnabled = enabled
	s.mu.Unlock()
	s.notify()
}

// StatusText returns the rotator phrase currently on display, or "" when
// no turn is in flight.
func (s *Session) StatusText() string {
	return s.rotator.Current()
}

// SearchStatus returns the search indicator state.
func (s *Session) SearchStatus() SearchState {
	return s.tracker.State()
}

// SearchFrame returns the searching animation frame counter.
func (s *Session) SearchFrame() int {
	return s.tracker.Frame()
}

// Store exposes the history store for listing and deletion surfaces.
func (s *Session) Store() *history.Store {
	return s.store
}

// =============================================================================
// TURN ORCHESTRATION
// =============================================================================

// turnSnapshot pins everything a turn needs at submit time. Settlement
// uses the pinned timeline and tracked id, so a result always lands on
// the conversation it was issued against even if the session has since
// switched.
type turnSnapshot struct {
	timeline  *model.Timeline
	trackedID string
	epoch     int
	searchOn  bool
	profile   model.TutorProfile
}

// SubmitTurn runs one full user turn: optimistic user append, one
// outbound answer call, terminal message(s), persistence. It blocks until
// the turn settles; interactive callers run it from a goroutine.
//
// Empty input (after trimming) returns ErrEmptyInput with no side
// effects. A second submit while a turn is outstanding returns
// ErrTurnInFlight. The returned error covers submission only: answer
// failures settle into the timeline as an assistant message and return
// nil.
func (s *Session) SubmitTurn(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}
	return s.runTurn(ctx, text, true)
}

// RunInitialPrompt submits a deep-linked opening prompt. It fires at most
// once per session; later calls are no-ops. Whether the prompt appears as
// a user bubble follows the EchoInitialPrompt option.
func (s *Session) RunInitialPrompt(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)

	s.mu.Lock()
	if s.initialDone {
		s.mu.Unlock()
		return nil
	}
	s.initialDone = true
	echo := s.echoInitial
	s.mu.Unlock()

	if prompt == "" {
		return nil
	}
	return s.runTurn(ctx, prompt, echo)
}

// runTurn performs the orchestration sequence shared by SubmitTurn and
// RunInitialPrompt.
func (s *Session) runTurn(ctx context.Context, text string, echoUser bool) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	s.inFlight = true
	if echoUser {
		s.timeline.Append(model.NewUserMessage(text))
	}
	snap := turnSnapshot{
		timeline:  s.timeline,
		trackedID: s.store.TrackedID(),
		epoch:     s.epoch,
		searchOn:  s.searchEnabled,
		profile:   s.profile,
	}
	s.mu.Unlock()

	s.rotator.Start()
	if snap.searchOn {
		s.tracker.Begin(text)
	}
	s.notify()

	req := tutor.ChatRequest{
		Message:      text,
		ModelType:    snap.profile.EffectiveModelType(),
		Professor:    tutor.ProfessorFromProfile(snap.profile),
		EnableSearch: snap.searchOn,
	}
	resp, err := s.client.Chat(ctx, req)

	s.settle(snap, resp, err)
	return nil
}

// settle applies the turn's terminal messages to the timeline it was
// issued against, updates the display state, and persists.
//
// Exactly one of two terminal shapes is appended: on success an optional
// search-results message immediately followed by the answer, on failure a
// single assistant error message. The answer id is whatever the timeline
// assigns after the search message decision, so the pair is adjacent.
func (s *Session) settle(snap turnSnapshot, resp *tutor.ChatResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		snap.timeline.Append(model.NewAssistantMessage(errorContent(snap.profile, err)))
	} else {
		sources := resp.Sources()
		if snap.searchOn && len(sources) > 0 {
			snap.timeline.Append(model.NewSearchResultsMessage(sources))
		}
		snap.timeline.Append(model.NewAssistantMessage(resp.Response))
	}

	current := snap.epoch == s.epoch
	s.inFlight = false

	// Display state belongs to the current conversation only; after a
	// switch the rotator and tracker were already torn down.
	if current {
		s.rotator.Stop()
		switch {
		case err != nil:
			// Failures force the error indicator even when this turn did
			// not request a search.
			s.tracker.Settle(SearchError)
		case snap.searchOn && len(resp.Sources()) > 0:
			s.tracker.Settle(SearchFound)
		case snap.searchOn:
			s.tracker.Settle(SearchActive)
		}
	}

	switch {
	case current:
		s.store.SaveCurrent(snap.timeline.All())
	case snap.trackedID != "":
		s.store.Upsert(snap.trackedID, snap.timeline.All())
	default:
		s.logger.Printf("engine: dropping turn result for an abandoned unsaved conversation")
	}

	fn := s.onUpdate
	if fn != nil {
		// Fire outside the lock.
		go fn()
	}
}

// errorContent builds the single assistant error bubble for a failed
// turn. Local-model profiles get pointed guidance about the local server;
// everything else surfaces the failure directly.
func errorContent(profile model.TutorProfile, err error) string {
	if profile.IsLocalModel() {
		return fmt.Sprintf("LM Studio Error: %v. Please ensure LM Studio is running and a model is loaded.", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// =============================================================================
// CONVERSATION SWITCHING
// =============================================================================

// StartNewConversation abandons the live timeline for a fresh
// greeting-seeded one and clears the store's tracked pointer. Stored
// records are untouched. Any in-flight turn settles against the old
// timeline.
func (s *Session) StartNewConversation() {
	s.mu.Lock()
	s.epoch++
	s.timeline = model.NewTimeline(s.profile)
	s.mu.Unlock()

	s.store.StartNew()
	s.rotator.Stop()
	s.tracker.Reset()
	s.notify()
}

// RestoreConversation replaces the live timeline with a stored
// conversation's messages, historical ids intact, and tracks it so later
// saves update it. An unknown id starts a fresh greeting-seeded
// conversation instead.
func (s *Session) RestoreConversation(id string) {
	s.mu.Lock()
	// The epoch moves before the store's tracked pointer. A turn settling
	// mid-switch then fails the epoch check and routes through the keyed
	// upsert to the conversation it was issued against, never into the
	// freshly restored record.
	s.epoch++
	messages := s.store.Restore(id)
	if len(messages) == 0 {
		s.timeline = model.NewTimeline(s.profile)
	} else {
		s.timeline = model.NewTimelineFromMessages(messages)
	}
	s.mu.Unlock()

	s.rotator.Stop()
	s.tracker.Reset()
	s.notify()
}

// Close tears down timers. The session must not be used afterwards.
func (s *Session) Close() {
	s.rotator.Stop()
	s.tracker.Close()
}
