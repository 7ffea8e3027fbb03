package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/store"
	"github.com/MKhiriev/workshop-qa/internal/validators"
	"github.com/MKhiriev/workshop-qa/models"
)

// kvService is the concrete implementation of KVService. It holds no
// workshop logic beyond key and value validation.
type kvService struct {
	storage   store.KVStorage
	watchers  WatchService
	bus       store.ChangeBus
	validator validators.Validator

	logger *logger.Logger
}

// NewKVService wires a KVService. bus may be nil when no other replica has to
// learn about local writes.
func NewKVService(storage store.KVStorage, watchers WatchService, bus store.ChangeBus, validator validators.Validator, logger *logger.Logger) KVService {
	return &kvService{
		storage:   storage,
		watchers:  watchers,
		bus:       bus,
		validator: validator,
		logger:    logger,
	}
}

func (s *kvService) Get(ctx context.Context, key string) (models.Entry, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, models.Entry{Key: key}, validators.FieldKey); err != nil {
		log.Err(err).Str("key", key).Msg("invalid key requested")
		return models.Entry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	entry, err := s.storage.Get(ctx, key)
	if err != nil {
		return models.Entry{}, fmt.Errorf("get %s: %w", key, err)
	}

	return entry, nil
}

func (s *kvService) Set(ctx context.Context, key string, value json.RawMessage) (models.Entry, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, models.Entry{Key: key, Value: value}); err != nil {
		log.Err(err).Str("key", key).Msg("invalid entry provided")
		return models.Entry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, value); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	entry, err := s.storage.Set(ctx, key, compacted.Bytes())
	if err != nil {
		log.Err(err).Str("key", key).Msg("storing entry failed")
		return models.Entry{}, fmt.Errorf("set %s: %w", key, err)
	}

	change := models.Change{Key: entry.Key, Version: entry.Version}
	s.watchers.Notify(change)

	if s.bus != nil {
		// the write already succeeded; remote watchers catch up on their
		// next wait
		if err = s.bus.Publish(ctx, change); err != nil {
			log.Err(err).Str("key", key).Int64("version", entry.Version).Msg("publishing change failed")
		}
	}

	log.Debug().Str("key", key).Int64("version", entry.Version).Msg("entry stored")
	return entry, nil
}
