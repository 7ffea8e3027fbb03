package service

import (
	"context"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

type appInfoService struct {
	info models.ServerInfo

	logger *logger.Logger
}

// NewAppInfoService captures what a client may learn about the running
// store server. The values are fixed at startup.
func NewAppInfoService(cfg config.StructuredConfig, logger *logger.Logger) (AppInfoService, error) {
	if cfg.App.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.ServerInfo{
			Version:       cfg.App.Version,
			Storage:       cfg.Storage.Kind,
			AccessControl: cfg.App.AccessCode != "" || cfg.App.AccessCodeHash != "",
			GRPC:          cfg.Server.GRPCAddress != "",
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(context.Context) string {
	return s.info.Version
}

func (s *appInfoService) GetServerInfo(context.Context) models.ServerInfo {
	return s.info
}
