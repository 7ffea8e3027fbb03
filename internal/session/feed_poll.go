package session

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

type pollFeed struct {
	store    adapter.StoreAdapter
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	kick   chan struct{}
	wg     sync.WaitGroup
}

// NewPollFeed creates a feed that re-reads the questions, the pointer and the
// pointed-at response collection every interval. The feed is idle until
// Start is called.
func NewPollFeed(store adapter.StoreAdapter, interval time.Duration, logger *logger.Logger) ChangeFeed {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}
	return &pollFeed{
		store:    store,
		interval: interval,
		logger:   logger.WithComponent("poll-feed"),
	}
}

// Start implements ChangeFeed. It stops any previous run, then launches a
// goroutine that refreshes immediately and on every tick.
func (f *pollFeed) Start(ctx context.Context, handler func(FeedUpdate)) {
	f.Stop()

	f.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	kick := make(chan struct{}, 1)
	f.kick = kick
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		t := time.NewTicker(f.interval)
		defer t.Stop()

		for {
			f.refresh(jobCtx, handler)
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
			case <-kick:
			}
		}
	}()
}

// Follow implements ChangeFeed. The pointer is re-read from the store on
// every refresh, so Follow only schedules an early one.
func (f *pollFeed) Follow(int) {
	f.mu.Lock()
	kick := f.kick
	f.mu.Unlock()

	if kick == nil {
		return
	}
	select {
	case kick <- struct{}{}:
	default:
	}
}

// Stop implements ChangeFeed.
func (f *pollFeed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.kick = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	f.wg.Wait()
}

func (f *pollFeed) refresh(ctx context.Context, handler func(FeedUpdate)) {
	questions := readEntry(ctx, f.store, models.QuestionsKey, f.logger)
	if ctx.Err() != nil {
		return
	}
	handler(FeedUpdate{Key: models.QuestionsKey, Entry: questions})

	pointer := readEntry(ctx, f.store, models.CurrentIndexKey, f.logger)
	if ctx.Err() != nil {
		return
	}
	handler(FeedUpdate{Key: models.CurrentIndexKey, Entry: pointer})

	index, _ := decodeIndex(pointer)
	key := models.ResponsesKey(index)
	responses := readEntry(ctx, f.store, key, f.logger)
	if ctx.Err() != nil {
		return
	}
	handler(FeedUpdate{Key: key, Entry: responses})
}
