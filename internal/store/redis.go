// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

const (
	// ChangesChannel is the pub/sub channel the server replicas share.
	ChangesChannel = "workshop-qa:changes"

	redisKeyPrefix = "workshop-qa:kv:"

	fieldValue     = "value"
	fieldVersion   = "version"
	fieldUpdatedAt = "updated_at"
)

// NewConnectRedis creates a client and checks the connection with PING.
func NewConnectRedis(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewConnectRedis").Str("addr", cfg.Addr).Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("error connecting redis: %w", err)
	}
	log.Info().Str("func", "NewConnectRedis").Msg("connected to redis successfully")

	return client, nil
}

// redisKVStorage keeps every entry in a hash {value, version, updated_at}.
type redisKVStorage struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisKVStorage constructs a Redis-backed [KVStorage].
func NewRedisKVStorage(client *redis.Client) KVStorage {
	return &redisKVStorage{
		client: client,
		now:    time.Now,
	}
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

func (r *redisKVStorage) Get(ctx context.Context, key string) (models.Entry, error) {
	fields, err := r.client.HGetAll(ctx, redisKey(key)).Result()
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if len(fields) == 0 {
		return models.Entry{}, ErrEntryNotFound
	}

	return entryFromHash(key, fields)
}

// Set writes the value and bumps the version inside one MULTI/EXEC block.
func (r *redisKVStorage) Set(ctx context.Context, key string, value json.RawMessage) (models.Entry, error) {
	now := r.now().UnixMilli()
	hashKey := redisKey(key)

	var version *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, fieldValue, string(value), fieldUpdatedAt, now)
		version = pipe.HIncrBy(ctx, hashKey, fieldVersion, 1)
		return nil
	})
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return models.Entry{
		Key:       key,
		Value:     value,
		Version:   version.Val(),
		UpdatedAt: time.UnixMilli(now),
	}, nil
}

func entryFromHash(key string, fields map[string]string) (models.Entry, error) {
	value, ok := fields[fieldValue]
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: %s has no value", ErrCorruptedEntry, key)
	}
	version, err := strconv.ParseInt(fields[fieldVersion], 10, 64)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %s version: %w", ErrCorruptedEntry, key, err)
	}
	updatedAt, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %s updated_at: %w", ErrCorruptedEntry, key, err)
	}

	return models.Entry{
		Key:       key,
		Value:     json.RawMessage(value),
		Version:   version,
		UpdatedAt: time.UnixMilli(updatedAt),
	}, nil
}

// redisChangeBus relays changes between server replicas over pub/sub.
type redisChangeBus struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisChangeBus constructs a [ChangeBus] on [ChangesChannel].
func NewRedisChangeBus(client *redis.Client, log *logger.Logger) ChangeBus {
	return &redisChangeBus{client: client, logger: log}
}

func (b *redisChangeBus) Publish(ctx context.Context, change models.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishingChange, err)
	}
	if err = b.client.Publish(ctx, ChangesChannel, payload).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishingChange, err)
	}
	return nil
}

func (b *redisChangeBus) Subscribe(ctx context.Context) (<-chan models.Change, error) {
	pubsub := b.client.Subscribe(ctx, ChangesChannel)
	// wait for the subscription confirmation so no change published after
	// Subscribe returns is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("%w: %w", ErrSubscribing, err)
	}

	out := make(chan models.Change, changeBuffer)
	messages := pubsub.Channel()

	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				change, err := decodeChange(msg.Payload)
				if err != nil {
					b.logger.Warn().Err(err).Str("payload", msg.Payload).Msg("dropping malformed change")
					continue
				}
				select {
				case out <- change:
				default:
				}
			}
		}
	}()

	return out, nil
}

func decodeChange(payload string) (models.Change, error) {
	var change models.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return models.Change{}, err
	}
	if change.Key == "" {
		return models.Change{}, errors.New("change without key")
	}
	return change, nil
}
