package store

import "errors"

// Sentinel errors returned by storages. Callers should use [errors.Is] to
// match against these values.
var (
	// ErrEntryNotFound is returned by Get when the key was never written.
	ErrEntryNotFound = errors.New("entry was not found")

	// ErrUnknownStorageKind is returned by NewStorages for unsupported kinds.
	ErrUnknownStorageKind = errors.New("unknown storage kind")

	// ErrCorruptedEntry is returned when a stored entry can't be decoded.
	ErrCorruptedEntry = errors.New("stored entry is corrupted")
)

// Low-level operation errors. These wrap the driver error so the root cause
// stays inspectable.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when running a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan entry row")

	// ErrPublishingChange is returned when a change can't be broadcast.
	ErrPublishingChange = errors.New("failed to publish change")

	// ErrSubscribing is returned when the change bus can't be subscribed to.
	ErrSubscribing = errors.New("failed to subscribe to changes")
)
