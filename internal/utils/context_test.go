// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestClientIDCtxKey(t *testing.T) {
	if ClientIDCtxKey.String() != "clientID" {
		t.Errorf("expected 'clientID', got '%s'", ClientIDCtxKey.String())
	}
}

func TestGetClientIDFromContext_Success(t *testing.T) {
	ctx := context.WithValue(context.Background(), ClientIDCtxKey, "client-42")

	clientID, ok := GetClientIDFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if clientID != "client-42" {
		t.Errorf("expected clientID=client-42, got %s", clientID)
	}
}

func TestGetClientIDFromContext_Missing(t *testing.T) {
	clientID, ok := GetClientIDFromContext(context.Background())

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if clientID != "" {
		t.Errorf("expected empty clientID, got %s", clientID)
	}
}

func TestGetClientIDFromContext_WrongTypeOrEmpty(t *testing.T) {
	ctx := context.WithValue(context.Background(), ClientIDCtxKey, int64(42))
	if _, ok := GetClientIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for wrong type, got true")
	}

	ctx = context.WithValue(context.Background(), ClientIDCtxKey, "")
	if _, ok := GetClientIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for empty id, got true")
	}
}

func TestGetTraceIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDCtxKey, "trace-1")

	traceID, ok := GetTraceIDFromContext(ctx)
	if !ok || traceID != "trace-1" {
		t.Fatalf("expected trace-1, got %q (ok=%v)", traceID, ok)
	}

	if _, ok := GetTraceIDFromContext(context.Background()); ok {
		t.Fatal("expected ok=false for empty context")
	}
}
