// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui renders the workshop session in the terminal with bubbletea.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/session"
	"github.com/MKhiriev/workshop-qa/models"
)

type TUI struct {
	session   *session.Session
	strategy  string
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(s *session.Session, strategy string, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		session:   s,
		strategy:  strategy,
		buildInfo: buildInfo,
		logger:    logger.WithComponent("tui"),
	}
}

// Run shows the UI until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	changes := make(chan struct{}, 1)
	remove := t.session.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer remove()

	root := NewRootModel(ctx, t.session, t.strategy, changes, t.buildInfo)
	_, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		t.logger.Info().Msg("ui stopped by context")
		return nil
	}
	return err
}
