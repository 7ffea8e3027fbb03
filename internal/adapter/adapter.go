package adapter

import (
	"fmt"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
)

// NewStoreAdapter builds the adapter selected by cfg.Adapter.Kind.
func NewStoreAdapter(cfg *config.ClientConfig, logger *logger.Logger) (StoreAdapter, error) {
	log := logger.WithComponent("adapter")

	switch cfg.Adapter.Kind {
	case config.AdapterHTTP:
		return NewHTTPStoreAdapter(cfg.Adapter, cfg.App, log)
	case config.AdapterGRPC:
		return NewGRPCStoreAdapter(cfg.Adapter, cfg.App, log)
	case config.AdapterMemory:
		return NewMemoryStoreAdapter(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAdapterKind, cfg.Adapter.Kind)
}
