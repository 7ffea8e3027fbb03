// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the session client's connection to the shared
// key/value store.
//
// The primary abstraction is [StoreAdapter], which decouples the session
// from the underlying protocol. The package ships an HTTP implementation
// (resty, long-poll watch), a gRPC implementation (CBOR codec, streaming
// watch) and an in-process memory store for offline use and tests.
//
// Transport errors are mapped to the sentinel values defined in errors.go so
// that callers can use [errors.Is] regardless of the protocol (e.g.
// [ErrNotFound] for an absent key).
package adapter

import (
	"context"

	"github.com/MKhiriev/workshop-qa/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_adapter_mock.go -package=mock

// StoreAdapter is the store port of the session client.
type StoreAdapter interface {
	// Get returns the entry stored under key. An absent key yields
	// [ErrNotFound].
	Get(ctx context.Context, key string) (models.Entry, error)

	// Set replaces the value of key with the JSON encoding of value.
	Set(ctx context.Context, key string, value any) error

	// Subscribe calls fn with the current entry of key, when there is one,
	// and then with every newer version until unsubscribe is called, ctx is
	// cancelled or the adapter is closed. fn runs on the subscription's own
	// goroutine (synchronously inside Set for the memory adapter) and must
	// not block for long.
	Subscribe(ctx context.Context, key string, fn func(models.Entry)) (unsubscribe func(), err error)

	// Close ends all subscriptions and releases the connection.
	Close() error
}
