package config

import "errors"

// Validation errors returned when a configuration group is incomplete or
// invalid. Every returned error wraps exactly one of them.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, an unknown kind or a missing address).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid server storage settings
	// (for example, postgres without a DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an access code without a token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates invalid change feed settings
	// (for example, a zero poll interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidServerConfigs indicates invalid listen settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
