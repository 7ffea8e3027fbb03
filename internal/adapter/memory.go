// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/workshop-qa/models"
)

// memoryStoreAdapter keeps versioned entries in process. Subscribers are
// called synchronously from Set, after the lock is released.
type memoryStoreAdapter struct {
	mu      sync.Mutex
	entries map[string]models.Entry
	subs    map[string]map[int]func(models.Entry)
	nextID  int
	closed  bool
}

// NewMemoryStoreAdapter returns an empty in-process store. It backs the
// --offline mode and the session tests.
func NewMemoryStoreAdapter() StoreAdapter {
	return &memoryStoreAdapter{
		entries: make(map[string]models.Entry),
		subs:    make(map[string]map[int]func(models.Entry)),
	}
}

func (m *memoryStoreAdapter) Get(ctx context.Context, key string) (models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return models.Entry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return models.Entry{}, ErrClosed
	}
	entry, ok := m.entries[key]
	if !ok {
		return models.Entry{}, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	return entry, nil
}

func (m *memoryStoreAdapter) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingValue, err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	entry := models.Entry{
		Key:       key,
		Value:     body,
		Version:   m.entries[key].Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
	m.entries[key] = entry

	listeners := make([]func(models.Entry), 0, len(m.subs[key]))
	for _, fn := range m.subs[key] {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(entry)
	}
	return nil
}

func (m *memoryStoreAdapter) Subscribe(ctx context.Context, key string, fn func(models.Entry)) (func(), error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	id := m.nextID
	m.nextID++
	if m.subs[key] == nil {
		m.subs[key] = make(map[int]func(models.Entry))
	}
	m.subs[key][id] = fn
	current, exists := m.entries[key]
	m.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs[key], id)
		})
	}
	stopAfter := context.AfterFunc(ctx, unsubscribe)

	if exists {
		fn(current)
	}

	return func() {
		stopAfter()
		unsubscribe()
	}, nil
}

func (m *memoryStoreAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.subs = make(map[string]map[int]func(models.Entry))
	return nil
}
