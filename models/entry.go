// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Entry is a single versioned value of the shared store.
//
// Version starts at 1 on the first write of a key and grows by one with every
// following write. A zero Version means the key has never been written.
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value,omitempty"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Exists reports whether the entry was ever written.
func (e Entry) Exists() bool {
	return e.Version > 0
}

// Decode unmarshals the raw value into v.
func (e Entry) Decode(v any) error {
	return json.Unmarshal(e.Value, v)
}

// Change is emitted by the store after every successful write.
type Change struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
}
