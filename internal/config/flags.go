package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the command-line arguments (without the program name).
//
// Flags:
//
//	-a server HTTP address in format [host]:[port]
//	-grpc-address server gRPC address in format [host]:[port]
//	-storage storage kind (memory, postgres, sqlite, redis)
//	-d database DSN
//	-redis-address redis address host:port
//	-c/-config JSON or YAML file path with configs
//	-access-code workshop access code
//	-access-code-hash bcrypt hash of the access code
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "12h")
//	-request-timeout server request timeout (e.g., "10s")
//	-watch-timeout long-poll watch timeout (e.g., "25s")
//	-hash-key body integrity hash key
//	-s store server URL used by the client
//	-server-grpc store server gRPC address used by the client
//	-adapter client adapter kind (http, grpc, memory)
//	-offline shortcut for -adapter memory
//	-mode forced client mode (presenter, participant)
//	-sync change feed strategy (poll, push)
//	-sync-interval poll interval (e.g., "2s")
//	-log-file client log file
//	-log-level log level
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var storageKind, databaseDSN, redisAddress string
	var configPath string
	var accessCode, accessCodeHash string
	var tokenSignKey, tokenIssuer string
	var tokenDuration, requestTimeout, watchTimeout time.Duration
	var hashKey string
	var adapterURL, adapterGRPC, adapterKind string
	var offline bool
	var mode, syncStrategy string
	var syncInterval time.Duration
	var logFile, logLevel string

	fs := flag.NewFlagSet("workshop-qa", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&storageKind, "storage", "", "Storage kind: memory, postgres, sqlite, redis")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisAddress, "redis-address", "", "Redis address host:port")
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")
	fs.StringVar(&accessCode, "access-code", "", "Workshop access code")
	fs.StringVar(&accessCodeHash, "access-code-hash", "", "Bcrypt hash of the access code")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 12h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.DurationVar(&watchTimeout, "watch-timeout", 0, "Long-poll watch timeout (e.g., 25s)")
	fs.StringVar(&hashKey, "hash-key", "", "Security hash key")
	fs.StringVar(&adapterURL, "s", "", "Store server URL")
	fs.StringVar(&adapterGRPC, "server-grpc", "", "Store server gRPC address host:port")
	fs.StringVar(&adapterKind, "adapter", "", "Adapter kind: http, grpc, memory")
	fs.BoolVar(&offline, "offline", false, "Use an in-process store")
	fs.StringVar(&mode, "mode", "", "Forced mode: presenter, participant")
	fs.StringVar(&syncStrategy, "sync", "", "Sync strategy: poll, push")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Poll interval (e.g., 2s)")
	fs.StringVar(&logFile, "log-file", "", "Client log file")
	fs.StringVar(&logLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if offline {
		adapterKind = AdapterMemory
	}

	return &StructuredConfig{
		App: App{
			AccessCode:     accessCode,
			AccessCodeHash: accessCodeHash,
			TokenSignKey:   tokenSignKey,
			TokenIssuer:    tokenIssuer,
			TokenDuration:  tokenDuration,
			HashKey:        hashKey,
			Mode:           mode,
			LogFile:        logFile,
			LogLevel:       logLevel,
		},
		Storage: Storage{
			Kind: storageKind,
			DB: DB{
				DSN: databaseDSN,
			},
			Redis: Redis{
				Addr: redisAddress,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
			WatchTimeout:   watchTimeout,
		},
		Adapter: Adapter{
			Kind:        adapterKind,
			HTTPAddress: adapterURL,
			GRPCAddress: adapterGRPC,
		},
		Workers: Workers{
			SyncStrategy: syncStrategy,
			SyncInterval: syncInterval,
		},
		JSONFilePath: configPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when neither part is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost", and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
