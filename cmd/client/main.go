package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/workshop-qa/internal/client"
	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(2)
	}

	log := logger.NewClientLogger("workshop-qa-client", cfg.App.LogFile)
	if !logger.SetLevel(cfg.App.LogLevel) {
		log.Warn().Str("level", cfg.App.LogLevel).Msg("unknown log level, keeping debug")
	}

	log.Debug().
		Str("adapter", cfg.Adapter.Kind).
		Str("mode", cfg.App.Mode.String()).
		Str("sync_strategy", cfg.Workers.SyncStrategy).
		Dur("sync_interval", cfg.Workers.SyncInterval).
		Msg("received configs")

	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	log.Info().Stringer("build", info).Msg("starting client")

	app, err := client.NewApp(cfg, info, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
