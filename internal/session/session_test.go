package session

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

func TestSession_Enter(t *testing.T) {
	feed := &recordingFeed{}
	s := NewSession(adapter.NewMemoryStoreAdapter(), feed, models.ModeSelect, logger.Nop())

	require.NoError(t, s.Enter(context.Background(), models.ModePresenter))
	assert.Equal(t, models.ModePresenter, s.Mode())
	assert.Equal(t, 1, feed.starts)

	err := s.Enter(context.Background(), models.ModeParticipant)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, models.ModePresenter, s.Mode(), "failed transition must not change the mode")
	assert.Equal(t, 1, feed.starts)
}

func TestSession_Enter_SelectIsRejected(t *testing.T) {
	s := NewSession(adapter.NewMemoryStoreAdapter(), &recordingFeed{}, models.ModeSelect, logger.Nop())

	assert.ErrorIs(t, s.Enter(context.Background(), models.ModeSelect), models.ErrInvalidTransition)
	assert.Equal(t, models.ModeSelect, s.Mode())
}

func TestSession_Exit(t *testing.T) {
	feed := &recordingFeed{}
	s := NewSession(adapter.NewMemoryStoreAdapter(), feed, models.ModeSelect, logger.Nop())

	assert.ErrorIs(t, s.Exit(), models.ErrInvalidTransition, "select cannot exit")

	require.NoError(t, s.Enter(context.Background(), models.ModeParticipant))
	require.NoError(t, s.Exit())
	assert.Equal(t, models.ModeSelect, s.Mode())
	assert.Equal(t, 1, feed.stops)

	require.NoError(t, s.Enter(context.Background(), models.ModePresenter), "select can be left again")
}

func TestSession_Start_ForcedModes(t *testing.T) {
	t.Run("participant cannot exit", func(t *testing.T) {
		s := NewSession(adapter.NewMemoryStoreAdapter(), &recordingFeed{}, models.ModeParticipant, logger.Nop())
		require.NoError(t, s.Start(context.Background()))

		assert.Equal(t, models.ModeParticipant, s.Mode())
		assert.ErrorIs(t, s.Exit(), ErrExitUnavailable)
		assert.Equal(t, models.ModeParticipant, s.Mode())
		assert.False(t, s.Snapshot().CanExit())
	})

	t.Run("presenter can exit", func(t *testing.T) {
		s := NewSession(adapter.NewMemoryStoreAdapter(), &recordingFeed{}, models.ModePresenter, logger.Nop())
		require.NoError(t, s.Start(context.Background()))

		assert.True(t, s.Snapshot().CanExit())
		require.NoError(t, s.Exit())
		assert.Equal(t, models.ModeSelect, s.Mode())
	})

	t.Run("no forced mode stays in select", func(t *testing.T) {
		feed := &recordingFeed{}
		s := NewSession(adapter.NewMemoryStoreAdapter(), feed, models.ModeSelect, logger.Nop())
		require.NoError(t, s.Start(context.Background()))

		assert.Equal(t, models.ModeSelect, s.Mode())
		assert.Zero(t, feed.starts)
	})
}

func TestSession_OperationsRequireActiveMode(t *testing.T) {
	s := NewSession(adapter.NewMemoryStoreAdapter(), &recordingFeed{}, models.ModeSelect, logger.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, s.AddQuestion(ctx, "Q"), ErrNotActive)
	assert.ErrorIs(t, s.SubmitResponse(ctx, "answer"), ErrNotActive)
	assert.ErrorIs(t, s.LikeResponse(ctx, 1), ErrNotActive)
	assert.ErrorIs(t, s.ClearResponses(ctx), ErrNotActive)
}

func TestSession_ParticipantCannotModerate(t *testing.T) {
	s := newMemorySession(t, newWorkshop(t, 0), models.ModeParticipant)
	ctx := context.Background()

	for name, op := range map[string]func() error{
		"add":        func() error { return s.AddQuestion(ctx, "Q") },
		"delete":     func() error { return s.DeleteQuestion(ctx, 0) },
		"move up":    func() error { return s.MoveQuestionUp(ctx, 1) },
		"move down":  func() error { return s.MoveQuestionDown(ctx, 0) },
		"activate":   func() error { return s.SetActiveQuestion(ctx, 1) },
		"next":       func() error { return s.NextQuestion(ctx) },
		"toggle":     func() error { return s.ToggleCheckmark(ctx, 1) },
		"delete one": func() error { return s.DeleteResponse(ctx, 1) },
		"clear":      func() error { return s.ClearResponses(ctx) },
	} {
		assert.ErrorIs(t, op(), ErrPresenterOnly, name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, s.Snapshot().Questions)
}

func TestSession_EnterLoadsRemoteState(t *testing.T) {
	store := newWorkshop(t, 1)
	seed(t, store, models.ResponsesKey(1), []models.Response{{ID: 7, Answer: "yes"}})

	snap := newMemorySession(t, store, models.ModeParticipant).Snapshot()

	assert.Equal(t, []string{"A", "B", "C"}, snap.Questions)
	assert.Equal(t, 1, snap.CurrentIndex)
	require.Len(t, snap.Responses, 1)
	assert.Equal(t, "yes", snap.Responses[0].Answer)

	question, ok := snap.CurrentQuestion()
	assert.True(t, ok)
	assert.Equal(t, "B", question)
}

func TestSession_Apply_DropsStaleGeneration(t *testing.T) {
	feed := &recordingFeed{}
	s := NewSession(adapter.NewMemoryStoreAdapter(), feed, models.ModeSelect, logger.Nop())
	ctx := context.Background()

	require.NoError(t, s.Enter(ctx, models.ModePresenter))
	stale := feed.handler

	require.NoError(t, s.Exit())
	require.NoError(t, s.Enter(ctx, models.ModePresenter))

	stale(FeedUpdate{Key: models.QuestionsKey, Entry: models.Entry{Key: models.QuestionsKey, Value: []byte(`["late"]`), Version: 3}})
	assert.Empty(t, s.Snapshot().Questions, "update from a previous mode run must be dropped")

	feed.deliver(FeedUpdate{Key: models.QuestionsKey, Entry: models.Entry{Key: models.QuestionsKey, Value: []byte(`["fresh"]`), Version: 4}})
	assert.Equal(t, []string{"fresh"}, s.Snapshot().Questions)
}

func TestSession_Apply(t *testing.T) {
	feed := &recordingFeed{}
	s := NewSession(adapter.NewMemoryStoreAdapter(), feed, models.ModeSelect, logger.Nop())
	require.NoError(t, s.Enter(context.Background(), models.ModeParticipant))

	entry := func(key, value string) FeedUpdate {
		return FeedUpdate{Key: key, Entry: models.Entry{Key: key, Value: []byte(value), Version: 1}}
	}

	feed.deliver(entry(models.QuestionsKey, `["A","B"]`))
	feed.deliver(entry(models.CurrentIndexKey, `1`))
	feed.deliver(entry(models.ResponsesKey(1), `[{"id":1,"answer":"x","likes":2,"checked":false,"timestamp":"10:00:00"}]`))

	snap := s.Snapshot()
	assert.Equal(t, []string{"A", "B"}, snap.Questions)
	assert.Equal(t, 1, snap.CurrentIndex)
	require.Len(t, snap.Responses, 1)

	// Responses of another slot are ignored.
	feed.deliver(entry(models.ResponsesKey(0), `[]`))
	assert.Len(t, s.Snapshot().Responses, 1)

	// Absent questions keep the local list, absent responses empty it.
	feed.deliver(FeedUpdate{Key: models.QuestionsKey, Entry: models.Entry{Key: models.QuestionsKey}})
	assert.Equal(t, []string{"A", "B"}, s.Snapshot().Questions)
	feed.deliver(FeedUpdate{Key: models.ResponsesKey(1), Entry: models.Entry{Key: models.ResponsesKey(1)}})
	assert.Empty(t, s.Snapshot().Responses)

	// Malformed values are skipped.
	feed.deliver(entry(models.QuestionsKey, `{"not":"a list"}`))
	feed.deliver(entry(models.CurrentIndexKey, `-4`))
	snap = s.Snapshot()
	assert.Equal(t, []string{"A", "B"}, snap.Questions)
	assert.Equal(t, 1, snap.CurrentIndex)
}

func TestSession_OnChange(t *testing.T) {
	s := NewSession(adapter.NewMemoryStoreAdapter(), &recordingFeed{}, models.ModeSelect, logger.Nop())

	var calls atomic.Int32
	remove := s.OnChange(func() { calls.Add(1) })

	require.NoError(t, s.Enter(context.Background(), models.ModePresenter))
	assert.Positive(t, calls.Load())

	remove()
	before := calls.Load()
	require.NoError(t, s.AddQuestion(context.Background(), "Q"))
	assert.Equal(t, before, calls.Load())
}

func TestSession_Snapshot_IsACopy(t *testing.T) {
	s := newMemorySession(t, newWorkshop(t, 0), models.ModePresenter)

	snap := s.Snapshot()
	snap.Questions[0] = "changed"

	assert.Equal(t, "A", s.Snapshot().Questions[0])
}

func TestSession_Draft(t *testing.T) {
	s := newMemorySession(t, newWorkshop(t, 0), models.ModeParticipant)

	s.SetDraft("half an answer")
	assert.Equal(t, "half an answer", s.Snapshot().Draft)

	require.NoError(t, s.SubmitResponse(context.Background(), "  full answer "))
	assert.Empty(t, s.Snapshot().Draft)
}
