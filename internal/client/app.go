package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/workshop-qa/internal/adapter"
	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/session"
	"github.com/MKhiriev/workshop-qa/internal/tui"
	"github.com/MKhiriev/workshop-qa/models"
)

// UI is the part of the terminal UI the App drives.
type UI interface {
	Run(ctx context.Context) error
}

type App struct {
	store   adapter.StoreAdapter
	session *session.Session
	ui      UI
	logger  *logger.Logger
}

var _ Client = (*App)(nil)

// NewApp builds the adapter, feed, session and UI described by cfg.
func NewApp(cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	store, err := adapter.NewStoreAdapter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create store adapter: %w", err)
	}

	feed, err := session.NewChangeFeed(cfg.Workers, store, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create change feed: %w", err)
	}

	sess := session.NewSession(store, feed, cfg.App.Mode, logger)
	ui := tui.New(sess, cfg.Workers.SyncStrategy, buildInfo, logger)

	return newApp(store, sess, ui, logger), nil
}

func newApp(store adapter.StoreAdapter, sess *session.Session, ui UI, logger *logger.Logger) *App {
	return &App{
		store:   store,
		session: sess,
		ui:      ui,
		logger:  logger.WithComponent("client"),
	}
}

// Run enters the forced mode, if any, and shows the UI until it quits.
// The session and the adapter are closed on return.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.session.Close()
		if err := a.store.Close(); err != nil {
			a.logger.Error().Err(err).Msg("error closing store adapter")
		}
	}()

	if err := a.session.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	a.logger.Info().Str("mode", a.session.Mode().String()).Msg("client started")

	if err := a.ui.Run(ctx); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	a.logger.Info().Msg("client stopped")
	return nil
}
