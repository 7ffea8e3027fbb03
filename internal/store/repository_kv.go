package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

const (
	maxWriteAttempts = 3
	retryBackoff     = 50 * time.Millisecond
)

// sqlKVStorage is the SQL implementation of [KVStorage] shared by the
// PostgreSQL and SQLite backends.
type sqlKVStorage struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLKVStorage constructs a [KVStorage] on top of db.
func NewSQLKVStorage(db *DB, logger *logger.Logger) KVStorage {
	logger.Debug().Str("dialect", db.dialect).Msg("creating kv repository")
	return &sqlKVStorage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Get reads a single entry.
//
// Error handling:
//   - no row → [ErrEntryNotFound].
//   - driver error → wrapped [ErrExecutingQuery].
func (r *sqlKVStorage) Get(ctx context.Context, key string) (models.Entry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetEntryQuery(r.db.placeholder, key)
	if err != nil {
		return models.Entry{}, err
	}

	var (
		value     string
		version   int64
		updatedAt int64
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value, &version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, ErrEntryNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*sqlKVStorage.Get").Str("key", key).Msg("error reading entry")
		return models.Entry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return models.Entry{
		Key:       key,
		Value:     json.RawMessage(value),
		Version:   version,
		UpdatedAt: time.UnixMilli(updatedAt),
	}, nil
}

// Set upserts the entry in a single statement. Failures the error classifier
// marks as retryable are attempted again up to maxWriteAttempts times.
func (r *sqlKVStorage) Set(ctx context.Context, key string, value json.RawMessage) (models.Entry, error) {
	log := logger.FromContext(ctx)

	now := r.now()
	query, args, err := buildUpsertEntryQuery(r.db.placeholder, key, value, now.UnixMilli())
	if err != nil {
		return models.Entry{}, err
	}

	var (
		version   int64
		updatedAt int64
	)
	for attempt := 1; ; attempt++ {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&version, &updatedAt)
		if err == nil {
			break
		}
		if attempt >= maxWriteAttempts || r.db.errorClassificator == nil ||
			r.db.errorClassificator.Classify(err) != Retryable {
			log.Err(err).Str("func", "*sqlKVStorage.Set").Str("key", key).Int("attempt", attempt).Msg("error writing entry")
			return models.Entry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		log.Warn().Err(err).Str("key", key).Int("attempt", attempt).Msg("retrying entry write")
		select {
		case <-ctx.Done():
			return models.Entry{}, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	return models.Entry{
		Key:       key,
		Value:     value,
		Version:   version,
		UpdatedAt: time.UnixMilli(updatedAt),
	}, nil
}
