package session

import "errors"

// Store failures never reach the caller; these are the only errors a Session
// operation returns.
var (
	ErrBusy            = errors.New("another operation is in progress")
	ErrPresenterOnly   = errors.New("operation is available to the presenter only")
	ErrNotActive       = errors.New("session is not in presenter or participant mode")
	ErrEmptyText       = errors.New("text must not be empty")
	ErrNoQuestion      = errors.New("no question is live")
	ErrExitUnavailable = errors.New("exit is unavailable in a forced participant mode")
	ErrUnknownStrategy = errors.New("unknown sync strategy")
)
