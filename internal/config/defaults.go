package config

import "time"

// Built-in defaults applied when no source sets a value.
const (
	DefaultHTTPAddress    = "localhost:8080"
	DefaultAdapterAddress = "http://localhost:8080"
	DefaultRequestTimeout = 10 * time.Second
	DefaultWatchTimeout   = 25 * time.Second
	DefaultTokenDuration  = 12 * time.Hour
	DefaultTokenIssuer    = "workshop-qa"
	DefaultSyncInterval   = 2 * time.Second
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
			LogLevel:      "info",
		},
		Storage: Storage{
			Kind: StorageMemory,
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
			WatchTimeout:   DefaultWatchTimeout,
		},
		Adapter: Adapter{
			Kind:           AdapterHTTP,
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{
			SyncStrategy: SyncPoll,
			SyncInterval: DefaultSyncInterval,
		},
	}
}
