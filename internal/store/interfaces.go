package store

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/workshop-qa/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KVStorage persists versioned JSON documents by key.
type KVStorage interface {
	// Get returns the stored entry or ErrEntryNotFound.
	Get(ctx context.Context, key string) (models.Entry, error)
	// Set replaces the value of key and returns the entry with its new
	// version. The first write of a key yields version 1.
	Set(ctx context.Context, key string, value json.RawMessage) (models.Entry, error)
}

// ChangeBus broadcasts changes between the server's watch hubs.
type ChangeBus interface {
	Publish(ctx context.Context, change models.Change) error
	// Subscribe delivers every change published after it returns. The
	// channel is closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan models.Change, error)
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
