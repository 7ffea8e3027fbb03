package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

// NewChangeFeed returns the feed selected by cfg.SyncStrategy.
func NewChangeFeed(cfg config.ClientWorkers, store adapter.StoreAdapter, logger *logger.Logger) (ChangeFeed, error) {
	switch cfg.SyncStrategy {
	case config.SyncPoll, "":
		return NewPollFeed(store, cfg.SyncInterval, logger), nil
	case config.SyncPush:
		return NewPushFeed(store, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.SyncStrategy)
	}
}

// readEntry fetches key and turns every failure into an absent entry.
func readEntry(ctx context.Context, store adapter.StoreAdapter, key string, log *logger.Logger) models.Entry {
	entry, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, adapter.ErrNotFound) && ctx.Err() == nil {
			log.Warn().Err(err).Str("key", key).Msg("read failed")
		}
		return models.Entry{Key: key}
	}
	return entry
}

// decodeIndex reads a question pointer, falling back to 0 for absent or
// malformed values.
func decodeIndex(entry models.Entry) (int, bool) {
	if !entry.Exists() {
		return 0, false
	}
	var index int
	if err := entry.Decode(&index); err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
