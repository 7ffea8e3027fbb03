// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"

	"github.com/MKhiriev/workshop-qa/models"
)

// validate checks the rules shared by both binaries.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenDuration < 0 || cfg.Server.RequestTimeout < 0 ||
		cfg.Server.WatchTimeout < 0 || cfg.Adapter.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidAppConfigs)
	}

	if _, err := models.ParseMode(cfg.App.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	return nil
}

func (cfg *StructuredConfig) validateServer() error {
	switch cfg.Storage.Kind {
	case StorageMemory:
	case StoragePostgres, StorageSQLite:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: %s storage needs a DSN", ErrInvalidStorageConfigs, cfg.Storage.Kind)
		}
	case StorageRedis:
		if cfg.Storage.Redis.Addr == "" {
			return fmt.Errorf("%w: redis storage needs an address", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown storage kind %q", ErrInvalidStorageConfigs, cfg.Storage.Kind)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return fmt.Errorf("%w: no listen address", ErrInvalidServerConfigs)
	}
	if cfg.Server.RequestTimeout == 0 || cfg.Server.WatchTimeout == 0 {
		return fmt.Errorf("%w: zero timeout", ErrInvalidServerConfigs)
	}

	if (cfg.App.AccessCode != "" || cfg.App.AccessCodeHash != "") && cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: access code requires a token sign key", ErrInvalidAppConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	switch cfg.Adapter.Kind {
	case AdapterMemory:
	case AdapterHTTP:
		u, err := url.Parse(cfg.Adapter.HTTPAddress)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: bad server URL %q", ErrInvalidAdapterConfigs, cfg.Adapter.HTTPAddress)
		}
	case AdapterGRPC:
		if cfg.Adapter.GRPCAddress == "" {
			return fmt.Errorf("%w: grpc adapter needs an address", ErrInvalidAdapterConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown adapter kind %q", ErrInvalidAdapterConfigs, cfg.Adapter.Kind)
	}

	if cfg.Adapter.Kind != AdapterMemory && cfg.Adapter.RequestTimeout == 0 {
		return fmt.Errorf("%w: zero request timeout", ErrInvalidAdapterConfigs)
	}

	switch cfg.Workers.SyncStrategy {
	case SyncPoll:
		if cfg.Workers.SyncInterval <= 0 {
			return fmt.Errorf("%w: poll interval must be positive", ErrInvalidWorkerConfigs)
		}
	case SyncPush:
	default:
		return fmt.Errorf("%w: unknown sync strategy %q", ErrInvalidWorkerConfigs, cfg.Workers.SyncStrategy)
	}

	return nil
}
