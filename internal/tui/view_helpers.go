package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/workshop-qa/internal/session"
	"github.com/MKhiriev/workshop-qa/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		lines := strings.Split(data, "\n")
		for _, line := range lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(helpStyle.Render("ctrl+c: quit"))

	return b.String()
}

func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// responseCountLabel renders "1 response" or "N responses".
func responseCountLabel(n int) string {
	if n == 1 {
		return "1 response"
	}
	return fmt.Sprintf("%d responses", n)
}

// statusLine joins the response count, the sync strategy and the busy flags.
func statusLine(snap session.Snapshot, strategy string) string {
	parts := []string{responseCountLabel(len(snap.Responses)), "sync: " + strategy}
	switch {
	case snap.Clearing:
		parts = append(parts, "clearing...")
	case snap.Loading:
		parts = append(parts, "saving...")
	}
	return strings.Join(parts, " │ ")
}

// renderResponses lists responses in display order with a cursor.
func renderResponses(sorted []models.Response, cursor int, width int) string {
	if len(sorted) == 0 {
		return helpStyle.Render("No responses yet")
	}

	var b strings.Builder
	for i, r := range sorted {
		marker := " "
		if i == cursor {
			marker = ">"
		}
		mark := "[ ]"
		if r.Checked {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s %-*s ♥ %-3d %s", marker, mark, width, fitText(r.Answer, width), r.Likes, r.Timestamp)
		if r.Checked {
			line = checkedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// opErrorMessage turns a session error into a status text.
func opErrorMessage(action string, err error) string {
	switch {
	case errors.Is(err, session.ErrBusy):
		return "Busy, try again in a moment"
	case errors.Is(err, session.ErrEmptyText):
		return "Text must not be empty"
	case errors.Is(err, session.ErrNoQuestion):
		return "Wait for the presenter to start a question"
	case errors.Is(err, session.ErrPresenterOnly):
		return "Only the presenter can do that"
	case errors.Is(err, session.ErrExitUnavailable):
		return "Exit is not available here"
	default:
		return fmt.Sprintf("%s failed: %v", action, err)
	}
}

// clampCursor keeps a list cursor inside [0, n-1].
func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(cursor, n-1))
}
