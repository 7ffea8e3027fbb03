// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/store"
	"github.com/MKhiriev/workshop-qa/models"
)

// watcher is woken through a one-slot channel. Signals coalesce, so a slow
// watcher skips intermediate versions and re-reads the latest entry.
type watcher struct {
	signal chan struct{}
}

// watchService is the server's watch hub: an in-process registry of
// watchers keyed by store key.
type watchService struct {
	storage store.KVStorage
	bus     store.ChangeBus

	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}

	logger *logger.Logger
}

// NewWatchService creates an empty hub reading entries from storage. Changes
// arriving on bus are relayed once Run is started.
func NewWatchService(storage store.KVStorage, bus store.ChangeBus, logger *logger.Logger) WatchService {
	return &watchService{
		storage:  storage,
		bus:      bus,
		watchers: make(map[string]map[*watcher]struct{}),
		logger:   logger,
	}
}

func (s *watchService) Wait(ctx context.Context, key string, since int64) (models.Entry, error) {
	w := s.subscribe(key)
	defer s.unsubscribe(key, w)

	for {
		entry, err := s.read(ctx, key)
		if err != nil {
			return models.Entry{}, err
		}
		if entry.Version > since {
			return entry, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return models.Entry{}, ErrNoChange
			}
			return models.Entry{}, ctx.Err()
		case <-w.signal:
		}
	}
}

func (s *watchService) Watch(ctx context.Context, key string, since int64, send func(models.Entry) error) error {
	for {
		entry, err := s.Wait(ctx, key, since)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err = send(entry); err != nil {
			return fmt.Errorf("sending %s v%d: %w", key, entry.Version, err)
		}
		since = entry.Version
	}
}

func (s *watchService) Notify(change models.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for w := range s.watchers[change.Key] {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

// Run forwards every change on the bus to Notify. It returns nil when ctx is
// cancelled.
func (s *watchService) Run(ctx context.Context) error {
	if s.bus == nil {
		<-ctx.Done()
		return nil
	}

	changes, err := s.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("watch relay: %w", err)
	}

	s.logger.Info().Msg("watch relay started")
	for change := range changes {
		s.Notify(change)
	}
	s.logger.Info().Msg("watch relay stopped")

	return nil
}

// read returns the current entry, treating absent keys as version 0.
func (s *watchService) read(ctx context.Context, key string) (models.Entry, error) {
	entry, err := s.storage.Get(ctx, key)
	switch {
	case err == nil:
		return entry, nil
	case errors.Is(err, store.ErrEntryNotFound):
		return models.Entry{Key: key}, nil
	default:
		return models.Entry{}, fmt.Errorf("watch %s: %w", key, err)
	}
}

func (s *watchService) subscribe(key string) *watcher {
	w := &watcher{signal: make(chan struct{}, 1)}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.watchers[key]
	if !ok {
		set = make(map[*watcher]struct{})
		s.watchers[key] = set
	}
	set[w] = struct{}{}

	return w
}

func (s *watchService) unsubscribe(key string, w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.watchers[key]
	delete(set, w)
	if len(set) == 0 {
		delete(s.watchers, key)
	}
}

// watcherCount is used by tests.
func (s *watchService) watcherCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers[key])
}
