package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/workshop-qa/models"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// AccessCode is exchanged for a session token when non-empty.
	AccessCode string
	// HashKey is the HMAC key used by the client for payload integrity checks.
	HashKey string
	// Mode is the forced start mode; ModeSelect means none.
	Mode models.Mode
	// LogFile is where the client writes its logs.
	LogFile string
	// LogLevel is a zerolog level name.
	LogLevel string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// Kind is http, grpc or memory.
	Kind string
	// HTTPAddress is the base URL of the store server.
	HTTPAddress string
	// GRPCAddress is the gRPC endpoint address used by the client.
	GRPCAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientWorkers contains the change feed settings.
type ClientWorkers struct {
	// SyncStrategy is poll or push.
	SyncStrategy string
	// SyncInterval defines how often the poll feed re-fetches.
	SyncInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Workers ClientWorkers
}

// ForcedMode reports whether the client was started in a fixed role.
func (c *ClientConfig) ForcedMode() bool {
	return c.App.Mode != models.ModeSelect
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	mode, err := models.ParseMode(cfg.App.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			AccessCode: cfg.App.AccessCode,
			HashKey:    cfg.App.HashKey,
			Mode:       mode,
			LogFile:    cfg.App.LogFile,
			LogLevel:   cfg.App.LogLevel,
		},
		Adapter: ClientAdapter{
			Kind:           cfg.Adapter.Kind,
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			GRPCAddress:    cfg.Adapter.GRPCAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Workers: ClientWorkers{
			SyncStrategy: cfg.Workers.SyncStrategy,
			SyncInterval: cfg.Workers.SyncInterval,
		},
	}

	return clientCfg, clientCfg.validate()
}
