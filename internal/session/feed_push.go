package session

import (
	"context"
	"sync"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

const notFollowing = -1

// pushFeed keeps store subscriptions on the questions and the pointer, plus
// one subscription on the response collection the pointer names. The
// response subscription is replaced whenever the pointer moves.
type pushFeed struct {
	store  adapter.StoreAdapter
	logger *logger.Logger

	mu        sync.Mutex
	gen       uint64
	ctx       context.Context
	handler   func(FeedUpdate)
	subs      []func()
	following int
	unfollow  func()
}

// NewPushFeed creates a subscription based feed. The feed is idle until Start
// is called.
func NewPushFeed(store adapter.StoreAdapter, logger *logger.Logger) ChangeFeed {
	return &pushFeed{
		store:     store,
		logger:    logger.WithComponent("push-feed"),
		following: notFollowing,
	}
}

// Start implements ChangeFeed.
func (f *pushFeed) Start(ctx context.Context, handler func(FeedUpdate)) {
	f.Stop()

	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.ctx = ctx
	f.handler = handler
	f.mu.Unlock()

	for _, key := range []string{models.QuestionsKey, models.CurrentIndexKey} {
		unsubscribe, err := f.store.Subscribe(ctx, key, f.deliver(gen, key))
		if err != nil {
			f.logger.Warn().Err(err).Str("key", key).Msg("subscribe failed")
			continue
		}
		if !f.keep(gen, unsubscribe) {
			return
		}
	}

	f.mu.Lock()
	idle := gen == f.gen && f.following == notFollowing
	f.mu.Unlock()
	if idle {
		f.follow(gen, 0)
	}
}

// Follow implements ChangeFeed.
func (f *pushFeed) Follow(index int) {
	f.mu.Lock()
	gen := f.gen
	f.mu.Unlock()

	f.follow(gen, index)
}

// Stop implements ChangeFeed.
func (f *pushFeed) Stop() {
	f.mu.Lock()
	f.gen++
	subs := f.subs
	if f.unfollow != nil {
		subs = append(subs, f.unfollow)
	}
	f.subs = nil
	f.unfollow = nil
	f.following = notFollowing
	f.handler = nil
	f.ctx = nil
	f.mu.Unlock()

	for _, unsubscribe := range subs {
		unsubscribe()
	}
}

// keep records unsubscribe for generation gen, or releases it at once when
// the feed has moved on.
func (f *pushFeed) keep(gen uint64, unsubscribe func()) bool {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		unsubscribe()
		return false
	}
	f.subs = append(f.subs, unsubscribe)
	f.mu.Unlock()
	return true
}

// handlerFor returns the handler of generation gen, or nil once stopped.
func (f *pushFeed) handlerFor(gen uint64) func(FeedUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		return nil
	}
	return f.handler
}

func (f *pushFeed) deliver(gen uint64, key string) func(models.Entry) {
	return func(entry models.Entry) {
		handler := f.handlerFor(gen)
		if handler == nil {
			return
		}
		handler(FeedUpdate{Key: key, Entry: entry})

		if key == models.CurrentIndexKey {
			if index, ok := decodeIndex(entry); ok {
				f.follow(gen, index)
			}
		}
	}
}

// follow swaps the response subscription over to index. The collection is
// read once first so that an absent key still clears the previous one.
func (f *pushFeed) follow(gen uint64, index int) {
	f.mu.Lock()
	if gen != f.gen || f.handler == nil || f.following == index {
		f.mu.Unlock()
		return
	}
	f.following = index
	previous := f.unfollow
	f.unfollow = nil
	ctx := f.ctx
	f.mu.Unlock()

	if previous != nil {
		previous()
	}

	key := models.ResponsesKey(index)
	entry := readEntry(ctx, f.store, key, f.logger)
	if handler := f.handlerFor(gen); handler != nil {
		handler(FeedUpdate{Key: key, Entry: entry})
	}

	unsubscribe, err := f.store.Subscribe(ctx, key, f.deliver(gen, key))
	if err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("subscribe failed")
		return
	}

	f.mu.Lock()
	if gen != f.gen || f.following != index {
		f.mu.Unlock()
		unsubscribe()
		return
	}
	f.unfollow = unsubscribe
	f.mu.Unlock()
}
