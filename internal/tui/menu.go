package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/workshop-qa/internal/session"
	"github.com/MKhiriev/workshop-qa/models"
)

// selectModel is the role picker shown in select mode.
type selectModel struct {
	ctx     context.Context
	session *session.Session
	items   []string
	modes   []models.Mode
	idx     int
	status  string
}

func newSelectModel(ctx context.Context, s *session.Session) *selectModel {
	return &selectModel{
		ctx:     ctx,
		session: s,
		items:   []string{"Presenter view", "Participant view"},
		modes:   []models.Mode{models.ModePresenter, models.ModeParticipant},
	}
}

func (m *selectModel) Init() tea.Cmd {
	return nil
}

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(opDoneMsg); ok {
		if done.err != nil {
			m.status = opErrorMessage(done.action, done.err)
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		m.status = ""
		mode := m.modes[m.idx]
		return m, runOp("enter", func() error { return m.session.Enter(m.ctx, mode) })
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	}

	return m, nil
}

func (m *selectModel) View() string {
	var b strings.Builder

	width := 0
	for _, item := range m.items {
		width = max(width, lipgloss.Width(item))
	}

	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString("Choose how you take part in the workshop:\n\n")
	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d │ %-*s\n", cursor, i+1, width, item))
	}

	return renderPage("WORKSHOP Q&A", strings.TrimRight(b.String(), "\n"), "enter: choose │ ↑/↓: navigate │ v: version │ q: quit")
}
