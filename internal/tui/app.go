package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/workshop-qa/internal/session"
	"github.com/MKhiriev/workshop-qa/models"
)

// RootModel is a TUI router:
// 1) picks the page of the current session mode
// 2) handles global Ctrl+C quit
// 3) turns session notifications into redraws
// 4) delegates all other messages to the active page
type RootModel struct {
	ctx     context.Context
	session *session.Session
	changes <-chan struct{}
	pages   map[models.Mode]tea.Model

	buildInfo     models.AppBuildInfo
	showBuildInfo bool
}

// NewRootModel registers one page per mode.
func NewRootModel(ctx context.Context, s *session.Session, strategy string, changes <-chan struct{}, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		ctx:     ctx,
		session: s,
		changes: changes,
		pages: map[models.Mode]tea.Model{
			models.ModeSelect:      newSelectModel(ctx, s),
			models.ModePresenter:   newPresenterModel(ctx, s, strategy),
			models.ModeParticipant: newParticipantModel(ctx, s, strategy),
		},
		buildInfo: buildInfo,
	}
}

func (r RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(r.ctx, r.changes)}
	for _, page := range r.pages {
		cmds = append(cmds, page.Init())
	}
	return tea.Batch(cmds...)
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.forceQuit):
			return r, tea.Quit
		case r.showBuildInfo:
			if key.Matches(keyMsg, keys.esc) {
				r.showBuildInfo = false
			}
			return r, nil
		case key.Matches(keyMsg, keys.version) && r.session.Mode() == models.ModeSelect:
			r.showBuildInfo = true
			return r, nil
		}
	}

	mode := r.session.Mode()
	page := r.pages[mode]
	updated, cmd := page.Update(msg)
	r.pages[mode] = updated

	if _, ok := msg.(sessionChangedMsg); ok {
		return r, tea.Batch(cmd, waitForChange(r.ctx, r.changes))
	}
	return r, cmd
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	return r.pages[r.session.Mode()].View()
}
