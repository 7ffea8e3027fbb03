package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/workshop-qa/models"
)

// changeBuffer is the per-subscriber queue length. A full queue drops the
// change; watchers re-read the latest entry anyway.
const changeBuffer = 64

type memoryKVStorage struct {
	mu      sync.RWMutex
	entries map[string]models.Entry
	now     func() time.Time
}

// NewMemoryKVStorage returns a process-local [KVStorage].
func NewMemoryKVStorage() KVStorage {
	return &memoryKVStorage{
		entries: make(map[string]models.Entry),
		now:     time.Now,
	}
}

func (m *memoryKVStorage) Get(_ context.Context, key string) (models.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return models.Entry{}, ErrEntryNotFound
	}
	entry.Value = slices.Clone(entry.Value)
	return entry, nil
}

func (m *memoryKVStorage) Set(_ context.Context, key string, value json.RawMessage) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := models.Entry{
		Key:       key,
		Value:     slices.Clone(value),
		Version:   m.entries[key].Version + 1,
		UpdatedAt: m.now(),
	}
	m.entries[key] = entry

	entry.Value = slices.Clone(entry.Value)
	return entry, nil
}

type memoryChangeBus struct {
	mu          sync.Mutex
	subscribers map[chan models.Change]struct{}
}

// NewMemoryChangeBus returns a [ChangeBus] that only reaches subscribers in
// the same process.
func NewMemoryChangeBus() ChangeBus {
	return &memoryChangeBus{
		subscribers: make(map[chan models.Change]struct{}),
	}
}

func (b *memoryChangeBus) Publish(_ context.Context, change models.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

func (b *memoryChangeBus) Subscribe(ctx context.Context) (<-chan models.Change, error) {
	ch := make(chan models.Change, changeBuffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subscribers, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}
