package adapter

import (
	"context"
	"sync"
	"time"
)

// subscriptions owns the goroutines of the network adapters' watch loops.
// Every loop ends on unsubscribe, on cancellation of the subscriber's
// context or on close.
type subscriptions struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func newSubscriptions() *subscriptions {
	ctx, cancel := context.WithCancel(context.Background())
	return &subscriptions{ctx: ctx, cancel: cancel}
}

// start runs loop on its own goroutine and returns the function that stops
// it. The stop function never waits, so it is safe to call from inside the
// subscriber's callback.
func (s *subscriptions) start(ctx context.Context, loop func(ctx context.Context)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	subCtx, cancel := context.WithCancel(s.ctx)
	stopAfter := context.AfterFunc(ctx, cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer stopAfter()
		defer cancel()
		loop(subCtx)
	}()

	return cancel, nil
}

// close stops every loop and waits for them to return.
func (s *subscriptions) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// sleepCtx waits for d and reports false when ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
