// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains message strings shared by the store server handlers
// and the client adapters.
//
// All Msg* constants are written into HTTP response bodies (and gRPC status
// messages) and matched by the client to tell apart failures that share a
// status code. Keeping them in one place keeps both sides in agreement.
package app

const (
	// MsgInvalidDataProvided is returned when the request body or a path
	// parameter fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidAccessCode is returned when the supplied workshop access code
	// does not match.
	MsgInvalidAccessCode = "invalid access code"

	// MsgAccessControlDisabled is returned by the session endpoint when the
	// server runs without an access code.
	MsgAccessControlDisabled = "access control is disabled"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpired is returned when a JWT bearer token is syntactically
	// valid but its expiry time has passed.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgEntryNotFound is returned when a key was never written.
	MsgEntryNotFound = "entry not found"

	// MsgIntegrityCheckFailed is returned when the HashSHA256 header does not
	// match the request body.
	MsgIntegrityCheckFailed = "integrity check failed"

	// MsgBodyTooLarge is returned when a request body exceeds the limit.
	MsgBodyTooLarge = "request body is too large"

	// MsgRequestTimeout is returned when the store did not answer in time.
	MsgRequestTimeout = "request timed out"
)
