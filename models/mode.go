package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned when a mode change is not allowed.
var ErrInvalidTransition = errors.New("invalid mode transition")

// ErrUnknownMode is returned by ParseMode for unsupported names.
var ErrUnknownMode = errors.New("unknown mode")

// Mode is the top-level state of a session client.
type Mode int

const (
	// ModeSelect is the initial screen where the user picks a role.
	ModeSelect Mode = iota
	// ModePresenter manages questions and moderates responses.
	ModePresenter
	// ModeParticipant submits and likes responses.
	ModeParticipant
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModePresenter:
		return "presenter"
	case ModeParticipant:
		return "participant"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Active reports whether the mode keeps the client synchronized.
func (m Mode) Active() bool {
	return m == ModePresenter || m == ModeParticipant
}

// Transition returns the mode that follows from when the user asks for to.
//
// Allowed: select -> presenter, select -> participant, presenter -> select,
// participant -> select.
func Transition(from, to Mode) (Mode, error) {
	switch {
	case from == ModeSelect && to.Active():
		return to, nil
	case from.Active() && to == ModeSelect:
		return to, nil
	default:
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
}

// ParseMode converts a configuration value into a Mode. An empty string maps
// to ModeSelect.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "select":
		return ModeSelect, nil
	case "presenter":
		return ModePresenter, nil
	case "participant":
		return ModeParticipant, nil
	default:
		return ModeSelect, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
