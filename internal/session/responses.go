package session

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/MKhiriev/workshop-qa/models"
)

// SubmitResponse appends an answer to the live question and clears the
// draft. Whitespace-only text and a missing live question are rejected
// without a write.
func (s *Session) SubmitResponse(ctx context.Context, text string) error {
	if err := s.allowed(false); err != nil {
		return err
	}
	s.mu.Lock()
	live := s.current >= 0 && s.current < len(s.questions)
	s.mu.Unlock()
	if !live {
		return ErrNoQuestion
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	ok, err := s.mutateResponses(ctx, false, "submitting response", func(current []models.Response) []models.Response {
		return append(current, models.NewResponse(text, s.now()))
	})
	if ok {
		s.SetDraft("")
	}
	return err
}

// LikeResponse adds one like to the response with id.
func (s *Session) LikeResponse(ctx context.Context, id int64) error {
	_, err := s.mutateResponses(ctx, false, "liking response", func(current []models.Response) []models.Response {
		for i := range current {
			if current[i].ID == id {
				current[i].Likes++
			}
		}
		return current
	})
	return err
}

// ToggleCheckmark flips the handled mark of the response with id.
func (s *Session) ToggleCheckmark(ctx context.Context, id int64) error {
	_, err := s.mutateResponses(ctx, true, "toggling checkmark", func(current []models.Response) []models.Response {
		for i := range current {
			if current[i].ID == id {
				current[i].Checked = !current[i].Checked
			}
		}
		return current
	})
	return err
}

// DeleteResponse removes the response with id.
func (s *Session) DeleteResponse(ctx context.Context, id int64) error {
	_, err := s.mutateResponses(ctx, true, "deleting response", func(current []models.Response) []models.Response {
		return slices.DeleteFunc(current, func(r models.Response) bool { return r.ID == id })
	})
	return err
}

// ClearResponses empties the response collection of every question slot.
// The writes are independent; a failure stops the loop and leaves the slots
// already written empty.
func (s *Session) ClearResponses(ctx context.Context) error {
	gen, err := s.begin(true, true)
	if err != nil {
		return err
	}
	defer s.end(true)

	s.mu.Lock()
	count := len(s.questions)
	s.mu.Unlock()

	for i := range count {
		if err = s.store.Set(ctx, models.ResponsesKey(i), []models.Response{}); err != nil {
			s.logger.Error().Err(err).Int("index", i).Msg("error clearing responses")
			return nil
		}
	}

	s.mu.Lock()
	if gen == s.gen {
		s.responses = []models.Response{}
	}
	s.mu.Unlock()
	return nil
}

// SortResponses returns responses in display order: unchecked before
// checked, then by likes descending. Equal keys keep their input order.
func SortResponses(responses []models.Response) []models.Response {
	sorted := slices.Clone(responses)
	if sorted == nil {
		sorted = []models.Response{}
	}
	slices.SortStableFunc(sorted, func(a, b models.Response) int {
		if a.Checked != b.Checked {
			if a.Checked {
				return 1
			}
			return -1
		}
		return cmp.Compare(b.Likes, a.Likes)
	})
	return sorted
}
