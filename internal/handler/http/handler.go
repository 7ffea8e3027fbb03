package http

import (
	"time"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/service"
)

// maxBodyBytes caps PUT bodies.
const maxBodyBytes = 1 << 20

type Handler struct {
	services *service.Services

	// hashKey enables the HashSHA256 body check when non-empty.
	hashKey string

	requestTimeout time.Duration
	watchTimeout   time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		hashKey:        cfg.App.HashKey,
		requestTimeout: cfg.Server.RequestTimeout,
		watchTimeout:   cfg.Server.WatchTimeout,
		logger:         logger,
	}
}
