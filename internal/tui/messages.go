package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// sessionChangedMsg asks for a redraw after the session state moved.
type sessionChangedMsg struct{}

// opDoneMsg reports the end of a session operation.
type opDoneMsg struct {
	action string
	err    error
}

type copiedMsg struct{}

// waitForChange turns one session notification into a tea message. The
// root model re-arms it after every delivery.
func waitForChange(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return sessionChangedMsg{}
		}
	}
}

// runOp runs a session operation off the update loop.
func runOp(action string, op func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{action: action, err: op()}
	}
}
