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

// presenterModel manages the question list and moderates responses.
type presenterModel struct {
	ctx      context.Context
	session  *session.Session
	strategy string

	editing    bool
	collapsed  bool
	adding     bool
	confirming bool
	input      textinput.Model
	qCursor    int
	rCursor    int
	status     string
}

func newPresenterModel(ctx context.Context, s *session.Session, strategy string) *presenterModel {
	input := textinput.New()
	input.Placeholder = "New question"
	input.CharLimit = 500
	input.Width = 60

	return &presenterModel{
		ctx:      ctx,
		session:  s,
		strategy: strategy,
		input:    input,
	}
}

func (m *presenterModel) Init() tea.Cmd {
	return nil
}

func (m *presenterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		if msg.err != nil {
			m.status = opErrorMessage(msg.action, msg.err)
		}
		return m, nil
	case copiedMsg:
		m.status = "Copied"
		return m, nil
	case sessionChangedMsg:
		snap := m.session.Snapshot()
		m.qCursor = clampCursor(m.qCursor, len(snap.Questions))
		m.rCursor = clampCursor(m.rCursor, len(snap.Sorted))
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *presenterModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()

	if m.confirming {
		switch {
		case key.Matches(msg, keys.yes):
			m.confirming = false
			return m, runOp("clearing responses", func() error { return m.session.ClearResponses(m.ctx) })
		case key.Matches(msg, keys.no):
			m.confirming = false
		}
		return m, nil
	}

	if m.adding {
		switch {
		case key.Matches(msg, keys.enter):
			text := m.input.Value()
			m.input.Reset()
			m.input.Blur()
			m.adding = false
			return m, runOp("adding question", func() error { return m.session.AddQuestion(m.ctx, text) })
		case key.Matches(msg, keys.esc):
			m.input.Reset()
			m.input.Blur()
			m.adding = false
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	m.status = ""
	switch {
	case key.Matches(msg, keys.esc):
		if m.editing {
			m.editing = false
			return m, nil
		}
		return m, runOp("exit", m.session.Exit)
	case key.Matches(msg, keys.tab):
		m.collapsed = !m.collapsed
		return m, nil
	case key.Matches(msg, keys.edit):
		m.editing = !m.editing
		if m.editing {
			m.collapsed = false
			m.qCursor = clampCursor(snap.CurrentIndex, len(snap.Questions))
		}
		return m, nil
	case key.Matches(msg, keys.left):
		return m, runOp("previous question", func() error { return m.session.PrevQuestion(m.ctx) })
	case key.Matches(msg, keys.right):
		return m, runOp("next question", func() error { return m.session.NextQuestion(m.ctx) })
	case key.Matches(msg, keys.clear):
		m.confirming = true
		return m, nil
	}

	if m.editing {
		return m.updateEditing(msg, snap)
	}
	return m.updateResponses(msg, snap)
}

func (m *presenterModel) updateEditing(msg tea.KeyMsg, snap session.Snapshot) (tea.Model, tea.Cmd) {
	index := m.qCursor

	switch {
	case key.Matches(msg, keys.up):
		m.qCursor = clampCursor(m.qCursor-1, len(snap.Questions))
	case key.Matches(msg, keys.down):
		m.qCursor = clampCursor(m.qCursor+1, len(snap.Questions))
	case key.Matches(msg, keys.add):
		m.adding = true
		return m, m.input.Focus()
	case key.Matches(msg, keys.delete):
		if len(snap.Questions) == 0 {
			return m, nil
		}
		return m, runOp("deleting question", func() error { return m.session.DeleteQuestion(m.ctx, index) })
	case key.Matches(msg, keys.moveUp):
		m.qCursor = clampCursor(m.qCursor-1, len(snap.Questions))
		return m, runOp("moving question", func() error { return m.session.MoveQuestionUp(m.ctx, index) })
	case key.Matches(msg, keys.moveDown):
		m.qCursor = clampCursor(m.qCursor+1, len(snap.Questions))
		return m, runOp("moving question", func() error { return m.session.MoveQuestionDown(m.ctx, index) })
	case key.Matches(msg, keys.enter):
		return m, runOp("setting question", func() error { return m.session.SetActiveQuestion(m.ctx, index) })
	}
	return m, nil
}

func (m *presenterModel) updateResponses(msg tea.KeyMsg, snap session.Snapshot) (tea.Model, tea.Cmd) {
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
	case key.Matches(msg, keys.check):
		return m, runOp("toggling checkmark", func() error { return m.session.ToggleCheckmark(m.ctx, selected.ID) })
	case key.Matches(msg, keys.like):
		return m, runOp("liking response", func() error { return m.session.LikeResponse(m.ctx, selected.ID) })
	case key.Matches(msg, keys.remove):
		return m, runOp("deleting response", func() error { return m.session.DeleteResponse(m.ctx, selected.ID) })
	case key.Matches(msg, keys.copy):
		if err := clipboard.WriteAll(selected.Answer); err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		return m, func() tea.Msg { return copiedMsg{} }
	}
	return m, nil
}

func (m *presenterModel) View() string {
	snap := m.session.Snapshot()
	var b strings.Builder

	if !m.collapsed {
		b.WriteString(m.viewQuestions(snap))
		b.WriteString("\n\n")
	}

	if question, ok := snap.CurrentQuestion(); ok {
		b.WriteString(fmt.Sprintf("Question %d of %d\n", snap.CurrentIndex+1, len(snap.Questions)))
		b.WriteString(questionStyle.Render(question))
	} else {
		b.WriteString(helpStyle.Render("No questions yet. Press e, then a to add one."))
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Responses"))
	b.WriteString("\n")
	cursor := -1
	if !m.editing {
		cursor = m.rCursor
	}
	b.WriteString(renderResponses(snap.Sorted, cursor, 48))
	b.WriteString("\n\n")

	b.WriteString(statusLine(snap, m.strategy))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	if m.confirming {
		b.WriteString("\n\n")
		b.WriteString(confirmModel{message: "Clear the responses of every question?"}.View())
	}

	return renderPage("PRESENTER", b.String(), m.hotKeys())
}

func (m *presenterModel) viewQuestions(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Questions (%d)", len(snap.Questions))))
	b.WriteString("\n")

	for i, q := range snap.Questions {
		cursor := " "
		if m.editing && i == m.qCursor {
			cursor = ">"
		}
		live := " "
		line := fmt.Sprintf("%d. %s", i+1, fitText(q, 60))
		if i == snap.CurrentIndex {
			live = "●"
			line = liveStyle.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, live, line))
	}
	if m.adding {
		b.WriteString("+ ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *presenterModel) hotKeys() string {
	switch {
	case m.confirming:
		return "y: clear all │ n: cancel"
	case m.adding:
		return "enter: add │ esc: cancel"
	case m.editing:
		return "a: add │ d: delete │ K/J: move │ enter: make live │ ↑/↓: select │ e/esc: done"
	default:
		return "←/→: question │ ↑/↓: response │ x: check │ +: like │ D: delete │ c: copy │ C: clear all │ e: edit │ tab: list │ esc: exit"
	}
}
