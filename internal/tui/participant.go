package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/workshop-qa/internal/session"
)

const submitAction = "submitting response"

// participantModel answers the live question and likes responses.
type participantModel struct {
	ctx      context.Context
	session  *session.Session
	strategy string

	input     textinput.Model
	listFocus bool
	rCursor   int
	status    string
}

func newParticipantModel(ctx context.Context, s *session.Session, strategy string) *participantModel {
	input := textinput.New()
	input.Placeholder = "Your answer"
	input.CharLimit = 1000
	input.Width = 60
	input.Focus()

	return &participantModel{
		ctx:      ctx,
		session:  s,
		strategy: strategy,
		input:    input,
	}
}

func (m *participantModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *participantModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		if msg.err != nil {
			m.status = opErrorMessage(msg.action, msg.err)
			return m, nil
		}
		if msg.action == submitAction {
			m.input.SetValue(m.session.Snapshot().Draft)
		}
		return m, nil
	case copiedMsg:
		m.status = "Copied"
		return m, nil
	case sessionChangedMsg:
		m.rCursor = clampCursor(m.rCursor, len(m.session.Snapshot().Sorted))
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *participantModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()

	switch {
	case key.Matches(msg, keys.esc):
		if !snap.CanExit() {
			return m, nil
		}
		return m, runOp("exit", m.session.Exit)
	case key.Matches(msg, keys.tab):
		m.listFocus = !m.listFocus
		if m.listFocus {
			m.input.Blur()
			return m, nil
		}
		return m, m.input.Focus()
	}

	if !m.listFocus {
		// the input is hidden until a question is live
		if _, live := snap.CurrentQuestion(); !live {
			return m, nil
		}
		if key.Matches(msg, keys.enter) {
			m.status = ""
			text := m.input.Value()
			return m, runOp(submitAction, func() error { return m.session.SubmitResponse(m.ctx, text) })
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.session.SetDraft(m.input.Value())
		return m, cmd
	}

	m.status = ""
	switch {
	case key.Matches(msg, keys.up):
		m.rCursor = clampCursor(m.rCursor-1, len(snap.Sorted))
		return m, nil
	case key.Matches(msg, keys.down):
		m.rCursor = clampCursor(m.rCursor+1, len(snap.Sorted))
		return m, nil
	}

	if len(snap.Sorted) == 0 {
		return m, nil
	}
	selected := snap.Sorted[clampCursor(m.rCursor, len(snap.Sorted))]

	switch {
	case key.Matches(msg, keys.like):
		return m, runOp("liking response", func() error { return m.session.LikeResponse(m.ctx, selected.ID) })
	case key.Matches(msg, keys.copy):
		if err := clipboard.WriteAll(selected.Answer); err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		return m, func() tea.Msg { return copiedMsg{} }
	}
	return m, nil
}

func (m *participantModel) View() string {
	snap := m.session.Snapshot()
	var b strings.Builder

	question, ok := snap.CurrentQuestion()
	if !ok {
		b.WriteString(helpStyle.Render("Waiting for the presenter to open a question..."))
		return renderPage("PARTICIPANT", b.String(), m.hotKeys(snap))
	}

	b.WriteString(questionStyle.Render(question))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Responses"))
	b.WriteString("\n")
	cursor := -1
	if m.listFocus {
		cursor = m.rCursor
	}
	b.WriteString(renderResponses(snap.Sorted, cursor, 48))
	b.WriteString("\n\n")

	b.WriteString(statusLine(snap, m.strategy))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
	}

	return renderPage("PARTICIPANT", b.String(), m.hotKeys(snap))
}

func (m *participantModel) hotKeys(snap session.Snapshot) string {
	var parts []string
	if m.listFocus {
		parts = append(parts, "↑/↓: response", "+: like", "c: copy", "tab: answer")
	} else {
		parts = append(parts, "enter: submit", "tab: responses")
	}
	if snap.CanExit() {
		parts = append(parts, "esc: exit")
	}
	return strings.Join(parts, " │ ")
}
