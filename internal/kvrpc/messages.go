package kvrpc

import (
	"time"

	"github.com/MKhiriev/workshop-qa/models"
)

// GetRequest asks for the current entry of Key.
type GetRequest struct {
	Key string `cbor:"1,keyasint"`
}

// SetRequest replaces the value of Key. Value is the JSON document.
type SetRequest struct {
	Key   string `cbor:"1,keyasint"`
	Value []byte `cbor:"2,keyasint"`
}

// WatchRequest opens a stream of entries of Key. The first entry is sent
// as soon as the stored version is greater than Since.
type WatchRequest struct {
	Key   string `cbor:"1,keyasint"`
	Since int64  `cbor:"2,keyasint"`
}

// SessionRequest exchanges the workshop access code for a session token.
type SessionRequest struct {
	AccessCode string `cbor:"1,keyasint"`
}

// SessionReply carries the signed session token. It is sent as
// "authorization: Bearer <token>" metadata on the following calls.
type SessionReply struct {
	Token string `cbor:"1,keyasint"`
}

// Entry is the wire form of models.Entry. UpdatedAt is unix milliseconds.
type Entry struct {
	Key       string `cbor:"1,keyasint"`
	Value     []byte `cbor:"2,keyasint,omitempty"`
	Version   int64  `cbor:"3,keyasint"`
	UpdatedAt int64  `cbor:"4,keyasint"`
}

// FromModel converts a stored entry to its wire form.
func FromModel(e models.Entry) *Entry {
	var updatedAt int64
	if !e.UpdatedAt.IsZero() {
		updatedAt = e.UpdatedAt.UnixMilli()
	}
	return &Entry{
		Key:       e.Key,
		Value:     []byte(e.Value),
		Version:   e.Version,
		UpdatedAt: updatedAt,
	}
}

// ToModel converts the wire entry back to models.Entry.
func (e *Entry) ToModel() models.Entry {
	entry := models.Entry{
		Key:     e.Key,
		Value:   e.Value,
		Version: e.Version,
	}
	if e.UpdatedAt != 0 {
		entry.UpdatedAt = time.UnixMilli(e.UpdatedAt).UTC()
	}
	return entry
}
