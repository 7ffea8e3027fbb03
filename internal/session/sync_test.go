package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

func TestSessions_ConvergeThroughSharedStore(t *testing.T) {
	for _, strategy := range []string{config.SyncPoll, config.SyncPush} {
		t.Run(strategy, func(t *testing.T) {
			store := adapter.NewMemoryStoreAdapter()
			open := func(mode models.Mode) *Session {
				feed, err := NewChangeFeed(config.ClientWorkers{SyncStrategy: strategy, SyncInterval: 10 * time.Millisecond}, store, logger.Nop())
				require.NoError(t, err)
				s := NewSession(store, feed, models.ModeSelect, logger.Nop())
				require.NoError(t, s.Enter(context.Background(), mode))
				t.Cleanup(s.Close)
				return s
			}

			presenter := open(models.ModePresenter)
			participant := open(models.ModeParticipant)
			ctx := context.Background()

			require.NoError(t, presenter.AddQuestion(ctx, "First?"))
			require.NoError(t, presenter.AddQuestion(ctx, "Second?"))
			// A poll that read before the second write may briefly roll the
			// local list back, so retry until the pointer lands.
			require.Eventually(t, func() bool {
				return presenter.SetActiveQuestion(ctx, 1) == nil && presenter.Snapshot().CurrentIndex == 1
			}, time.Second, 5*time.Millisecond)

			require.Eventually(t, func() bool {
				q, ok := participant.Snapshot().CurrentQuestion()
				return ok && q == "Second?"
			}, time.Second, 5*time.Millisecond)

			require.NoError(t, participant.SubmitResponse(ctx, "an answer"))

			require.Eventually(t, func() bool {
				return len(presenter.Snapshot().Responses) == 1
			}, time.Second, 5*time.Millisecond)

			id := presenter.Snapshot().Responses[0].ID
			require.NoError(t, presenter.ToggleCheckmark(ctx, id))

			require.Eventually(t, func() bool {
				rs := participant.Snapshot().Responses
				return len(rs) == 1 && rs[0].Checked
			}, time.Second, 5*time.Millisecond)
		})
	}
}

func TestSession_ExitStopsUpdates(t *testing.T) {
	store := newWorkshop(t, 0)
	feed := NewPollFeed(store, 10*time.Millisecond, logger.Nop())
	s := NewSession(store, feed, models.ModeSelect, logger.Nop())

	require.NoError(t, s.Enter(context.Background(), models.ModeParticipant))
	require.Eventually(t, func() bool { return len(s.Snapshot().Questions) == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Exit())

	seed(t, store, models.QuestionsKey, []string{"changed"})
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, []string{"A", "B", "C"}, s.Snapshot().Questions, "local state is kept but no longer refreshed")
}
