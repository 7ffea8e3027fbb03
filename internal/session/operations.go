package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/models"
)

// allowed checks the mode and role requirements of an operation.
func (s *Session) allowed(presenterOnly bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowedLocked(presenterOnly)
}

func (s *Session) allowedLocked(presenterOnly bool) error {
	switch {
	case !s.mode.Active():
		return ErrNotActive
	case presenterOnly && s.mode != models.ModePresenter:
		return ErrPresenterOnly
	case s.loading || s.clearing:
		return ErrBusy
	}
	return nil
}

// begin marks the session busy and returns the generation the operation
// belongs to. Every successful begin must be paired with end.
func (s *Session) begin(presenterOnly, clearing bool) (uint64, error) {
	s.mu.Lock()
	if err := s.allowedLocked(presenterOnly); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if clearing {
		s.clearing = true
	} else {
		s.loading = true
	}
	gen := s.gen
	s.mu.Unlock()

	s.notify()
	return gen, nil
}

func (s *Session) end(clearing bool) {
	s.mu.Lock()
	if clearing {
		s.clearing = false
	} else {
		s.loading = false
	}
	s.mu.Unlock()

	s.notify()
}

// saveQuestions persists the full question list and adopts it locally when
// the write succeeded.
func (s *Session) saveQuestions(ctx context.Context, gen uint64, questions []string) bool {
	if err := s.store.Set(ctx, models.QuestionsKey, questions); err != nil {
		s.logger.Error().Err(err).Msg("error saving questions")
		return false
	}

	s.mu.Lock()
	if gen == s.gen {
		s.questions = questions
	}
	s.mu.Unlock()
	return true
}

// activate persists the pointer, reloads the pointed-at responses and moves
// the feed along.
func (s *Session) activate(ctx context.Context, gen uint64, index int) {
	if err := s.store.Set(ctx, models.CurrentIndexKey, index); err != nil {
		s.logger.Error().Err(err).Int("index", index).Msg("error setting question")
		return
	}

	s.mu.Lock()
	if gen == s.gen {
		s.current = index
	}
	s.mu.Unlock()

	entry := readEntry(ctx, s.store, models.ResponsesKey(index), s.logger)
	responses := decodeResponses(entry, s.logger)

	s.mu.Lock()
	stale := gen != s.gen
	if !stale && s.current == index {
		s.responses = responses
	}
	s.mu.Unlock()

	if !stale {
		s.feed.Follow(index)
	}
}

// loadResponses reads the collection of index for a read-modify-write. An
// absent key is an empty collection; any other failure aborts the write.
func (s *Session) loadResponses(ctx context.Context, index int) ([]models.Response, error) {
	entry, err := s.store.Get(ctx, models.ResponsesKey(index))
	if errors.Is(err, adapter.ErrNotFound) {
		return []models.Response{}, nil
	}
	if err != nil {
		return nil, err
	}

	var responses []models.Response
	if err = entry.Decode(&responses); err != nil {
		return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
	}
	if responses == nil {
		responses = []models.Response{}
	}
	return responses, nil
}

// mutateResponses runs a read-modify-write of the live question's
// collection. There is no concurrency control: the last writer wins.
func (s *Session) mutateResponses(ctx context.Context, presenterOnly bool, action string, change func([]models.Response) []models.Response) (bool, error) {
	gen, err := s.begin(presenterOnly, false)
	if err != nil {
		return false, err
	}
	defer s.end(false)

	s.mu.Lock()
	index := s.current
	s.mu.Unlock()

	current, err := s.loadResponses(ctx, index)
	if err != nil {
		s.logger.Error().Err(err).Int("index", index).Msgf("error %s", action)
		return false, nil
	}

	updated := change(current)
	if err = s.store.Set(ctx, models.ResponsesKey(index), updated); err != nil {
		s.logger.Error().Err(err).Int("index", index).Msgf("error %s", action)
		return false, nil
	}

	s.mu.Lock()
	if gen == s.gen && s.current == index {
		s.responses = updated
	}
	s.mu.Unlock()
	return true, nil
}
