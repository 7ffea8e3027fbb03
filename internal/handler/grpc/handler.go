// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"time"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/kvrpc"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/service"
)

// Handler is the root gRPC transport handler. It implements
// [kvrpc.KVServer] on top of the service layer.
//
// A handler instance is created once at startup and shared by the gRPC server.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	// requestTimeout bounds unary calls; zero disables the bound.
	requestTimeout time.Duration

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

var _ kvrpc.KVServer = (*Handler)(nil)

// NewHandler constructs a [Handler] with the provided service container and
// logger, and returns the initialized instance.
func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services:       services,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
