package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/workshop-qa/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// KVService validates and persists workshop documents.
type KVService interface {
	// Get returns the current entry of key. Absent keys yield
	// store.ErrEntryNotFound.
	Get(ctx context.Context, key string) (models.Entry, error)
	// Set validates value against the shape key requires, stores it and
	// notifies watchers.
	Set(ctx context.Context, key string, value json.RawMessage) (models.Entry, error)
}

// WatchService blocks callers until a key moves past a known version.
type WatchService interface {
	// Wait returns the entry of key once its version is greater than since.
	// ErrNoChange is returned when ctx reaches its deadline first.
	Wait(ctx context.Context, key string, since int64) (models.Entry, error)
	// Watch calls send with every newer entry of key until ctx is done or
	// send fails.
	Watch(ctx context.Context, key string, since int64, send func(models.Entry) error) error
	// Notify wakes the watchers of change.Key.
	Notify(change models.Change)
	// Run relays changes published by other replicas until ctx is done.
	Run(ctx context.Context) error
}

// AuthService exchanges the workshop access code for session tokens.
type AuthService interface {
	// Enabled reports whether an access code is configured.
	Enabled() bool
	Login(ctx context.Context, req models.SessionRequest) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build metadata and the server's setup.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetServerInfo(ctx context.Context) models.ServerInfo
}
