// Package utils provides general-purpose helpers shared by the server and
// the client: context keys, HMAC hashing, JSON response writing, the resty
// client wrapper, session JWTs and UUID generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// ClientIDCtxKey stores the authenticated client identifier.
//
//	ctx := context.WithValue(ctx, utils.ClientIDCtxKey, "0190b6c1-...")
var ClientIDCtxKey = contextKey("clientID")

// TraceIDCtxKey stores the request trace identifier.
var TraceIDCtxKey = contextKey("traceID")

// GetClientIDFromContext returns the client identifier stored under
// ClientIDCtxKey. ok is false when it is missing or not a non-empty string.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDCtxKey).(string)
	return clientID, ok && clientID != ""
}

// GetTraceIDFromContext returns the trace identifier stored under
// TraceIDCtxKey.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok
}
