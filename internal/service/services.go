package service

import (
	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/store"
	"github.com/MKhiriev/workshop-qa/internal/validators"
)

// Services is the store server's service container.
type Services struct {
	KVService      KVService
	WatchService   WatchService
	AuthService    AuthService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	authService, err := NewAuthService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	watchService := NewWatchService(storages.KV, storages.Bus, logger)

	return &Services{
		KVService:      NewKVService(storages.KV, watchService, storages.Bus, validators.NewEntryValidator(), logger),
		WatchService:   watchService,
		AuthService:    authService,
		AppInfoService: appInfoService,
	}, nil
}
