package session

import (
	"context"
	"slices"
	"strings"
)

// AddQuestion appends text to the question list. Whitespace-only text is
// rejected without a write.
func (s *Session) AddQuestion(ctx context.Context, text string) error {
	if err := s.allowed(true); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	gen, err := s.begin(true, false)
	if err != nil {
		return err
	}
	defer s.end(false)

	s.mu.Lock()
	updated := append(slices.Clone(s.questions), text)
	s.mu.Unlock()

	s.saveQuestions(ctx, gen, updated)
	return nil
}

// DeleteQuestion removes the question at index. When the pointer ends up past
// the shortened list it is moved to the last question.
func (s *Session) DeleteQuestion(ctx context.Context, index int) error {
	gen, err := s.begin(true, false)
	if err != nil {
		return err
	}
	defer s.end(false)

	s.mu.Lock()
	if index < 0 || index >= len(s.questions) {
		s.mu.Unlock()
		return nil
	}
	updated := slices.Delete(slices.Clone(s.questions), index, index+1)
	s.mu.Unlock()

	if !s.saveQuestions(ctx, gen, updated) {
		return nil
	}

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current >= len(updated) && len(updated) > 0 {
		s.activate(ctx, gen, len(updated)-1)
	}
	return nil
}

// MoveQuestionUp swaps the question at index with the one before it.
func (s *Session) MoveQuestionUp(ctx context.Context, index int) error {
	return s.swapQuestions(ctx, index-1, index)
}

// MoveQuestionDown swaps the question at index with the one after it.
func (s *Session) MoveQuestionDown(ctx context.Context, index int) error {
	return s.swapQuestions(ctx, index, index+1)
}

// swapQuestions exchanges neighbours lo and lo+1. A pointer on either of them
// follows its question.
func (s *Session) swapQuestions(ctx context.Context, lo, hi int) error {
	gen, err := s.begin(true, false)
	if err != nil {
		return err
	}
	defer s.end(false)

	s.mu.Lock()
	if lo < 0 || hi >= len(s.questions) {
		s.mu.Unlock()
		return nil
	}
	updated := slices.Clone(s.questions)
	updated[lo], updated[hi] = updated[hi], updated[lo]
	s.mu.Unlock()

	if !s.saveQuestions(ctx, gen, updated) {
		return nil
	}

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	switch current {
	case lo:
		s.activate(ctx, gen, hi)
	case hi:
		s.activate(ctx, gen, lo)
	}
	return nil
}

// SetActiveQuestion makes the question at index live and loads its
// responses. Indexes outside the list are ignored; callers clamp.
func (s *Session) SetActiveQuestion(ctx context.Context, index int) error {
	gen, err := s.begin(true, false)
	if err != nil {
		return err
	}
	defer s.end(false)

	s.mu.Lock()
	inRange := index >= 0 && index < len(s.questions)
	s.mu.Unlock()

	if inRange {
		s.activate(ctx, gen, index)
	}
	return nil
}

// PrevQuestion activates the previous question, staying on the first one.
func (s *Session) PrevQuestion(ctx context.Context) error {
	s.mu.Lock()
	target := max(0, s.current-1)
	s.mu.Unlock()

	return s.SetActiveQuestion(ctx, target)
}

// NextQuestion activates the next question, staying on the last one.
func (s *Session) NextQuestion(ctx context.Context) error {
	s.mu.Lock()
	target := min(len(s.questions)-1, s.current+1)
	s.mu.Unlock()

	return s.SetActiveQuestion(ctx, target)
}
