package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

var fixedNow = time.Date(2026, 10, 18, 14, 5, 9, 0, time.UTC)

// recordingFeed remembers what the session asked of it.
type recordingFeed struct {
	mu      sync.Mutex
	starts  int
	stops   int
	follows []int
	handler func(FeedUpdate)
}

func (f *recordingFeed) Start(_ context.Context, handler func(FeedUpdate)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.handler = handler
}

func (f *recordingFeed) Follow(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.follows = append(f.follows, index)
}

func (f *recordingFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *recordingFeed) deliver(update FeedUpdate) {
	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()
	handler(update)
}

// seed writes value under key straight into store.
func seed(t *testing.T, store adapter.StoreAdapter, key string, value any) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), key, value))
}

// readResponses returns the stored collection of index.
func readResponses(t *testing.T, store adapter.StoreAdapter, index int) []models.Response {
	t.Helper()
	entry, err := store.Get(context.Background(), models.ResponsesKey(index))
	require.NoError(t, err)

	var responses []models.Response
	require.NoError(t, entry.Decode(&responses))
	return responses
}

// readQuestions returns the stored question list.
func readQuestions(t *testing.T, store adapter.StoreAdapter) []string {
	t.Helper()
	entry, err := store.Get(context.Background(), models.QuestionsKey)
	require.NoError(t, err)

	var questions []string
	require.NoError(t, entry.Decode(&questions))
	return questions
}

// readIndex returns the stored pointer.
func readIndex(t *testing.T, store adapter.StoreAdapter) int {
	t.Helper()
	entry, err := store.Get(context.Background(), models.CurrentIndexKey)
	require.NoError(t, err)

	var index int
	require.NoError(t, entry.Decode(&index))
	return index
}

// newMemorySession enters mode on a push-fed session over a memory store.
// The memory store delivers synchronously, so the seeded state is loaded when
// this returns.
func newMemorySession(t *testing.T, store adapter.StoreAdapter, mode models.Mode) *Session {
	t.Helper()
	s := NewSession(store, NewPushFeed(store, logger.Nop()), models.ModeSelect, logger.Nop())
	s.now = func() time.Time { return fixedNow }
	require.NoError(t, s.Enter(context.Background(), mode))
	t.Cleanup(s.Close)
	return s
}

// newWorkshop seeds three questions with the pointer at current.
func newWorkshop(t *testing.T, current int) adapter.StoreAdapter {
	t.Helper()
	store := adapter.NewMemoryStoreAdapter()
	seed(t, store, models.QuestionsKey, []string{"A", "B", "C"})
	seed(t, store, models.CurrentIndexKey, current)
	return store
}
