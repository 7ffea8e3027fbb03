// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

// Snapshot is an immutable copy of the session state for rendering.
type Snapshot struct {
	Mode         models.Mode
	Questions    []string
	CurrentIndex int
	Responses    []models.Response
	Sorted       []models.Response
	Loading      bool
	Clearing     bool
	Draft        string
	ForcedMode   models.Mode
}

// CurrentQuestion returns the text of the live question, if the pointer names
// one.
func (s Snapshot) CurrentQuestion() (string, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return "", false
	}
	return s.Questions[s.CurrentIndex], true
}

// CanExit reports whether the exit action is offered.
func (s Snapshot) CanExit() bool {
	return s.Mode.Active() && s.ForcedMode != models.ModeParticipant
}

// Session is the client side of a workshop. All methods are safe for
// concurrent use; store calls are made without holding the state lock.
type Session struct {
	store  adapter.StoreAdapter
	feed   ChangeFeed
	forced models.Mode
	logger *logger.Logger
	now    func() time.Time

	mu        sync.Mutex
	mode      models.Mode
	gen       uint64
	cancel    context.CancelFunc
	questions []string
	current   int
	responses []models.Response
	loading   bool
	clearing  bool
	draft     string

	listenersMu sync.Mutex
	listeners   map[int]func()
	nextID      int
}

// NewSession creates a session in select mode. forced is the start mode
// requested by configuration; models.ModeSelect means none.
func NewSession(store adapter.StoreAdapter, feed ChangeFeed, forced models.Mode, logger *logger.Logger) *Session {
	return &Session{
		store:     store,
		feed:      feed,
		forced:    forced,
		logger:    logger.WithComponent("session"),
		now:       time.Now,
		mode:      models.ModeSelect,
		questions: []string{},
		responses: []models.Response{},
		listeners: make(map[int]func()),
	}
}

// Start enters the forced mode, if any.
func (s *Session) Start(ctx context.Context) error {
	if !s.forced.Active() {
		return nil
	}
	return s.Enter(ctx, s.forced)
}

// Enter switches from select into presenter or participant mode and starts
// the change feed.
func (s *Session) Enter(ctx context.Context, mode models.Mode) error {
	s.mu.Lock()
	next, err := models.Transition(s.mode, mode)
	if err != nil || next == models.ModeSelect {
		s.mu.Unlock()
		if err == nil {
			err = models.ErrInvalidTransition
		}
		return err
	}
	s.mode = next
	s.gen++
	gen := s.gen
	feedCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info().Str("mode", next.String()).Msg("entered mode")
	s.feed.Start(feedCtx, func(update FeedUpdate) { s.apply(gen, update) })
	s.notify()
	return nil
}

// Exit returns to select mode and stops the change feed.
func (s *Session) Exit() error {
	s.mu.Lock()
	if s.forced == models.ModeParticipant {
		s.mu.Unlock()
		return ErrExitUnavailable
	}
	next, err := models.Transition(s.mode, models.ModeSelect)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.mode = next
	s.gen++
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	s.feed.Stop()
	if cancel != nil {
		cancel()
	}
	s.logger.Info().Msg("returned to mode select")
	s.notify()
	return nil
}

// Close stops synchronization regardless of the forced mode.
func (s *Session) Close() {
	s.mu.Lock()
	s.gen++
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	s.feed.Stop()
	if cancel != nil {
		cancel()
	}
}

// Mode returns the current mode.
func (s *Session) Mode() models.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Loading reports whether a store operation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Clearing reports whether ClearResponses is in flight.
func (s *Session) Clearing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearing
}

// SetDraft stores the participant's unsent answer.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

// SortedResponses returns the local responses in display order.
func (s *Session) SortedResponses() []models.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SortResponses(s.responses)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Mode:         s.mode,
		Questions:    slices.Clone(s.questions),
		CurrentIndex: s.current,
		Responses:    slices.Clone(s.responses),
		Sorted:       SortResponses(s.responses),
		Loading:      s.loading,
		Clearing:     s.clearing,
		Draft:        s.draft,
		ForcedMode:   s.forced,
	}
}

// OnChange registers fn to be called after every state change. The returned
// function removes it.
func (s *Session) OnChange(fn func()) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Session) notify() {
	s.listenersMu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// apply merges a feed update into the local state. Updates of an earlier
// generation are dropped.
func (s *Session) apply(gen uint64, update FeedUpdate) {
	s.mu.Lock()
	if gen != s.gen || !s.mode.Active() {
		s.mu.Unlock()
		return
	}

	changed := false
	switch update.Key {
	case models.QuestionsKey:
		if !update.Entry.Exists() {
			break
		}
		var questions []string
		if err := update.Entry.Decode(&questions); err != nil {
			s.logger.Warn().Err(err).Msg("undecodable questions")
			break
		}
		if questions == nil {
			questions = []string{}
		}
		s.questions = questions
		changed = true
	case models.CurrentIndexKey:
		if index, ok := decodeIndex(update.Entry); ok && index != s.current {
			s.current = index
			changed = true
		}
	default:
		index, ok := models.ParseResponsesKey(update.Key)
		if !ok || index != s.current {
			break
		}
		s.responses = decodeResponses(update.Entry, s.logger)
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// decodeResponses reads a response collection; absent or malformed values
// yield an empty one.
func decodeResponses(entry models.Entry, log *logger.Logger) []models.Response {
	responses := []models.Response{}
	if !entry.Exists() {
		return responses
	}
	if err := entry.Decode(&responses); err != nil {
		log.Warn().Err(err).Str("key", entry.Key).Msg("undecodable responses")
		return []models.Response{}
	}
	if responses == nil {
		responses = []models.Response{}
	}
	return responses
}
