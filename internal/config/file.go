package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StructuredFileConfig is the on-disk layout of a JSON or YAML config file.
type StructuredFileConfig struct {
	App struct {
		AccessCode     string   `json:"access_code" yaml:"access_code"`
		AccessCodeHash string   `json:"access_code_hash" yaml:"access_code_hash"`
		TokenSignKey   string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer    string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration  Duration `json:"token_duration" yaml:"token_duration"`
		HashKey        string   `json:"hash_key" yaml:"hash_key"`
		Version        string   `json:"version" yaml:"version"`
		Mode           string   `json:"mode" yaml:"mode"`
		LogFile        string   `json:"log_file" yaml:"log_file"`
		LogLevel       string   `json:"log_level" yaml:"log_level"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Storage struct {
		Kind string `json:"kind" yaml:"kind"`
		DB   struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db,omitempty" yaml:"db,omitempty"`
		Redis struct {
			Addr     string `json:"address" yaml:"address"`
			Password string `json:"password" yaml:"password"`
			DB       int    `json:"db" yaml:"db"`
		} `json:"redis,omitempty" yaml:"redis,omitempty"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		WatchTimeout   Duration `json:"watch_timeout" yaml:"watch_timeout"`
	} `json:"server,omitempty" yaml:"server,omitempty"`

	Adapter struct {
		Kind           string   `json:"kind" yaml:"kind"`
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Workers struct {
		SyncStrategy string   `json:"sync_strategy" yaml:"sync_strategy"`
		SyncInterval Duration `json:"sync_interval" yaml:"sync_interval"`
	} `json:"workers,omitempty" yaml:"workers,omitempty"`
}

func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fileCfg StructuredFileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return &StructuredConfig{
		App: App{
			AccessCode:     fileCfg.App.AccessCode,
			AccessCodeHash: fileCfg.App.AccessCodeHash,
			TokenSignKey:   fileCfg.App.TokenSignKey,
			TokenIssuer:    fileCfg.App.TokenIssuer,
			TokenDuration:  time.Duration(fileCfg.App.TokenDuration),
			HashKey:        fileCfg.App.HashKey,
			Version:        fileCfg.App.Version,
			Mode:           fileCfg.App.Mode,
			LogFile:        fileCfg.App.LogFile,
			LogLevel:       fileCfg.App.LogLevel,
		},
		Storage: Storage{
			Kind: fileCfg.Storage.Kind,
			DB: DB{
				DSN: fileCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				Addr:     fileCfg.Storage.Redis.Addr,
				Password: fileCfg.Storage.Redis.Password,
				DB:       fileCfg.Storage.Redis.DB,
			},
		},
		Server: Server{
			HTTPAddress:    fileCfg.Server.HTTPAddress,
			GRPCAddress:    fileCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(fileCfg.Server.RequestTimeout),
			WatchTimeout:   time.Duration(fileCfg.Server.WatchTimeout),
		},
		Adapter: Adapter{
			Kind:           fileCfg.Adapter.Kind,
			HTTPAddress:    fileCfg.Adapter.HTTPAddress,
			GRPCAddress:    fileCfg.Adapter.GRPCAddress,
			RequestTimeout: time.Duration(fileCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncStrategy: fileCfg.Workers.SyncStrategy,
			SyncInterval: time.Duration(fileCfg.Workers.SyncInterval),
		},
	}, nil
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "2s" or from integer nanoseconds, in JSON and in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
