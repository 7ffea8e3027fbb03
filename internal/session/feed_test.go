package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

// updateLog collects feed updates from any goroutine.
type updateLog struct {
	mu      sync.Mutex
	updates []FeedUpdate
}

func (l *updateLog) handle(u FeedUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, u)
}

func (l *updateLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.updates)
}

func (l *updateLog) keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, len(l.updates))
	for _, u := range l.updates {
		keys = append(keys, u.Key)
	}
	return keys
}

func (l *updateLog) last(key string) (models.Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.updates) - 1; i >= 0; i-- {
		if l.updates[i].Key == key {
			return l.updates[i].Entry, true
		}
	}
	return models.Entry{}, false
}

func TestNewChangeFeed(t *testing.T) {
	store := adapter.NewMemoryStoreAdapter()

	tests := []struct {
		strategy string
		want     any
		wantErr  error
	}{
		{strategy: config.SyncPoll, want: &pollFeed{}},
		{strategy: "", want: &pollFeed{}},
		{strategy: config.SyncPush, want: &pushFeed{}},
		{strategy: "gossip", wantErr: ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			feed, err := NewChangeFeed(config.ClientWorkers{SyncStrategy: tt.strategy, SyncInterval: time.Second}, store, logger.Nop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, feed)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, feed)
		})
	}
}

func TestNewPollFeed_DefaultInterval(t *testing.T) {
	feed := NewPollFeed(adapter.NewMemoryStoreAdapter(), 0, logger.Nop()).(*pollFeed)
	assert.Equal(t, config.DefaultSyncInterval, feed.interval)
}

func TestPollFeed_RefreshesImmediatelyAndOnTick(t *testing.T) {
	store := newWorkshop(t, 2)
	seed(t, store, models.ResponsesKey(2), []models.Response{{ID: 1}})
	feed := NewPollFeed(store, 20*time.Millisecond, logger.Nop())
	log := &updateLog{}

	feed.Start(context.Background(), log.handle)
	defer feed.Stop()

	require.Eventually(t, func() bool { return log.len() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{models.QuestionsKey, models.CurrentIndexKey, models.ResponsesKey(2)}, log.keys()[:3])

	require.Eventually(t, func() bool { return log.len() >= 9 }, time.Second, 5*time.Millisecond, "ticks keep refreshing")
}

func TestPollFeed_AbsentKeys(t *testing.T) {
	feed := NewPollFeed(adapter.NewMemoryStoreAdapter(), time.Hour, logger.Nop())
	log := &updateLog{}

	feed.Start(context.Background(), log.handle)
	defer feed.Stop()

	require.Eventually(t, func() bool { return log.len() == 3 }, time.Second, 5*time.Millisecond)
	entry, ok := log.last(models.ResponsesKey(0))
	require.True(t, ok, "a missing pointer reads as slot 0")
	assert.False(t, entry.Exists())
}

func TestPollFeed_FollowRefreshesEarly(t *testing.T) {
	store := newWorkshop(t, 0)
	feed := NewPollFeed(store, time.Hour, logger.Nop())
	log := &updateLog{}

	feed.Start(context.Background(), log.handle)
	defer feed.Stop()
	require.Eventually(t, func() bool { return log.len() == 3 }, time.Second, 5*time.Millisecond)

	seed(t, store, models.CurrentIndexKey, 1)
	feed.Follow(1)

	require.Eventually(t, func() bool { return log.len() == 6 }, time.Second, 5*time.Millisecond)
	_, ok := log.last(models.ResponsesKey(1))
	assert.True(t, ok)
}

func TestPollFeed_Stop(t *testing.T) {
	feed := NewPollFeed(newWorkshop(t, 0), 10*time.Millisecond, logger.Nop())
	log := &updateLog{}

	assert.NotPanics(t, func() { feed.Stop() }, "stop before start")
	assert.NotPanics(t, func() { feed.Follow(3) }, "follow before start")

	feed.Start(context.Background(), log.handle)
	require.Eventually(t, func() bool { return log.len() >= 3 }, time.Second, 5*time.Millisecond)
	feed.Stop()

	afterStop := log.len()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, afterStop, log.len(), "no updates after Stop")
}

func TestPollFeed_ContextCancelStops(t *testing.T) {
	feed := NewPollFeed(newWorkshop(t, 0), 10*time.Millisecond, logger.Nop())
	log := &updateLog{}
	ctx, cancel := context.WithCancel(context.Background())

	feed.Start(ctx, log.handle)
	require.Eventually(t, func() bool { return log.len() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	feed.Stop()

	afterStop := log.len()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, afterStop, log.len())
}

func TestPushFeed_DeliversCurrentThenChanges(t *testing.T) {
	store := newWorkshop(t, 1)
	seed(t, store, models.ResponsesKey(1), []models.Response{{ID: 1}})
	feed := NewPushFeed(store, logger.Nop())
	log := &updateLog{}

	feed.Start(context.Background(), log.handle)
	defer feed.Stop()

	assert.Contains(t, log.keys(), models.QuestionsKey)
	assert.Contains(t, log.keys(), models.CurrentIndexKey)
	entry, ok := log.last(models.ResponsesKey(1))
	require.True(t, ok)
	assert.True(t, entry.Exists())

	seed(t, store, models.QuestionsKey, []string{"A"})
	entry, _ = log.last(models.QuestionsKey)
	assert.JSONEq(t, `["A"]`, string(entry.Value))
}

func TestPushFeed_PointerMoveSwapsResponseSubscription(t *testing.T) {
	store := newWorkshop(t, 0)
	feed := NewPushFeed(store, logger.Nop()).(*pushFeed)
	log := &updateLog{}

	feed.Start(context.Background(), log.handle)
	defer feed.Stop()

	seed(t, store, models.CurrentIndexKey, 2)

	entry, ok := log.last(models.ResponsesKey(2))
	require.True(t, ok, "the new slot is read at once")
	assert.False(t, entry.Exists())
	assert.Equal(t, 2, feed.following)

	before := log.len()
	seed(t, store, models.ResponsesKey(0), []models.Response{{ID: 5}})
	assert.Equal(t, before, log.len(), "the old slot is no longer watched")

	seed(t, store, models.ResponsesKey(2), []models.Response{{ID: 6}})
	assert.Equal(t, before+1, log.len())
}

func TestPushFeed_FollowWithoutPointer(t *testing.T) {
	store := adapter.NewMemoryStoreAdapter()
	feed := NewPushFeed(store, logger.Nop()).(*pushFeed)
	log := &updateLog{}

	feed.Start(context.Background(), log.handle)
	defer feed.Stop()
	assert.Equal(t, 0, feed.following, "slot 0 is watched while no pointer exists")

	feed.Follow(3)
	assert.Equal(t, 3, feed.following)
	feed.Follow(3)
	assert.Equal(t, []string{models.ResponsesKey(0), models.ResponsesKey(3)}, log.keys())
}

func TestPushFeed_Stop(t *testing.T) {
	store := newWorkshop(t, 0)
	feed := NewPushFeed(store, logger.Nop())
	log := &updateLog{}

	assert.NotPanics(t, func() { feed.Stop() })

	feed.Start(context.Background(), log.handle)
	feed.Stop()
	before := log.len()

	seed(t, store, models.QuestionsKey, []string{"X"})
	seed(t, store, models.CurrentIndexKey, 1)
	seed(t, store, models.ResponsesKey(0), []models.Response{})
	feed.Follow(1)

	assert.Equal(t, before, log.len(), "no updates after Stop")
}

func TestPushFeed_RestartDropsPreviousHandler(t *testing.T) {
	store := newWorkshop(t, 0)
	feed := NewPushFeed(store, logger.Nop())
	first, second := &updateLog{}, &updateLog{}

	feed.Start(context.Background(), first.handle)
	feed.Start(context.Background(), second.handle)
	defer feed.Stop()
	before := first.len()

	seed(t, store, models.QuestionsKey, []string{"X"})

	assert.Equal(t, before, first.len())
	_, ok := second.last(models.QuestionsKey)
	assert.True(t, ok)
}

func TestPushFeed_SubscribeFailureIsLogged(t *testing.T) {
	store := adapter.NewMemoryStoreAdapter()
	require.NoError(t, store.Close())
	feed := NewPushFeed(store, logger.Nop())
	log := &updateLog{}

	assert.NotPanics(t, func() { feed.Start(context.Background(), log.handle) })
	feed.Stop()
}
