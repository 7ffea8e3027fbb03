// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session implements the workshop Q&A session client: the mode
// state machine, question and response operations, and the change feeds that
// keep the local view in step with the shared store.
//
// A [Session] talks to the store only through [adapter.StoreAdapter]. Store
// failures are logged and swallowed; the UI sees stale-but-consistent state
// and the few validation errors declared in errors.go.
package session

import (
	"context"

	"github.com/MKhiriev/workshop-qa/models"
)

// FeedUpdate is one remote entry read or pushed by a ChangeFeed. Absent keys
// arrive as an entry with a zero Version.
type FeedUpdate struct {
	Key   string
	Entry models.Entry
}

// ChangeFeed delivers remote changes of the workshop keys to a session.
type ChangeFeed interface {
	// Start begins delivering updates to handler until ctx is done or Stop
	// is called. A running feed is stopped first.
	Start(ctx context.Context, handler func(FeedUpdate))

	// Follow points the feed at the response collection of index.
	Follow(index int)

	// Stop ends delivery and blocks until background work has exited.
	// Safe to call on an idle feed.
	Stop()
}
