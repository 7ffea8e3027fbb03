package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
)

// Storages bundles the server's persistence and change relay.
type Storages struct {
	KV  KVStorage
	Bus ChangeBus

	closers []io.Closer
}

// NewStorages opens the backend selected by cfg.Kind. SQL backends are
// migrated on open. Only the Redis backend shares changes between server
// replicas; every other backend uses an in-process bus.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	switch cfg.Kind {
	case config.StorageMemory, "":
		return &Storages{
			KV:  NewMemoryKVStorage(),
			Bus: NewMemoryChangeBus(),
		}, nil

	case config.StoragePostgres, config.StorageSQLite:
		var (
			db  *DB
			err error
		)
		if cfg.Kind == config.StoragePostgres {
			db, err = NewConnectPostgres(ctx, cfg.DB, log)
		} else {
			db, err = NewConnectSQLite(ctx, cfg.DB, log)
		}
		if err != nil {
			return nil, err
		}
		if err = db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error migrating %s database: %w", cfg.Kind, err)
		}
		return &Storages{
			KV:      NewSQLKVStorage(db, log),
			Bus:     NewMemoryChangeBus(),
			closers: []io.Closer{db},
		}, nil

	case config.StorageRedis:
		client, err := NewConnectRedis(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return &Storages{
			KV:      NewRedisKVStorage(client),
			Bus:     NewRedisChangeBus(client, log),
			closers: []io.Closer{client},
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownStorageKind, cfg.Kind)
}

// Close releases the underlying connections.
func (s *Storages) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
