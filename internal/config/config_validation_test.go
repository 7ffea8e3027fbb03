package config

import (
	"testing"
	"time"

	"github.com/MKhiriev/workshop-qa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(cfg *StructuredConfig) {}},
		{
			name:    "postgres without dsn",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.Kind = StoragePostgres },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "sqlite with dsn",
			mutate: func(cfg *StructuredConfig) {
				cfg.Storage.Kind = StorageSQLite
				cfg.Storage.DB.DSN = "file:workshop.db"
			},
		},
		{
			name:    "redis without address",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.Kind = StorageRedis },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "unknown storage",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.Kind = "mongo" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "no listen address",
			mutate:  func(cfg *StructuredConfig) { cfg.Server.HTTPAddress = "" },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "zero watch timeout",
			mutate:  func(cfg *StructuredConfig) { cfg.Server.WatchTimeout = 0 },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "access code without sign key",
			mutate:  func(cfg *StructuredConfig) { cfg.App.AccessCode = "rainbow" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name: "access code with sign key",
			mutate: func(cfg *StructuredConfig) {
				cfg.App.AccessCode = "rainbow"
				cfg.App.TokenSignKey = "secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)

			err := cfg.validateServer()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewClientConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(cfg *StructuredConfig) {}},
		{
			name:    "relative server url",
			mutate:  func(cfg *StructuredConfig) { cfg.Adapter.HTTPAddress = "localhost:8080" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "grpc without address",
			mutate:  func(cfg *StructuredConfig) { cfg.Adapter.Kind = AdapterGRPC },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name: "memory ignores addresses",
			mutate: func(cfg *StructuredConfig) {
				cfg.Adapter.Kind = AdapterMemory
				cfg.Adapter.HTTPAddress = ""
				cfg.Adapter.RequestTimeout = 0
			},
		},
		{
			name:    "unknown adapter",
			mutate:  func(cfg *StructuredConfig) { cfg.Adapter.Kind = "carrier-pigeon" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "zero poll interval",
			mutate:  func(cfg *StructuredConfig) { cfg.Workers.SyncInterval = 0 },
			wantErr: ErrInvalidWorkerConfigs,
		},
		{
			name: "push ignores interval",
			mutate: func(cfg *StructuredConfig) {
				cfg.Workers.SyncStrategy = SyncPush
				cfg.Workers.SyncInterval = 0
			},
		},
		{
			name:    "unknown strategy",
			mutate:  func(cfg *StructuredConfig) { cfg.Workers.SyncStrategy = "gossip" },
			wantErr: ErrInvalidWorkerConfigs,
		},
		{
			name:    "unknown mode",
			mutate:  func(cfg *StructuredConfig) { cfg.App.Mode = "admin" },
			wantErr: ErrInvalidAppConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)

			_, err := newClientConfig(cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewClientConfig_ForcedMode(t *testing.T) {
	cfg := defaults()
	cfg.App.Mode = "participant"
	cfg.Workers.SyncInterval = 500 * time.Millisecond

	clientCfg, err := newClientConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, models.ModeParticipant, clientCfg.App.Mode)
	assert.True(t, clientCfg.ForcedMode())
	assert.Equal(t, 500*time.Millisecond, clientCfg.Workers.SyncInterval)
}
