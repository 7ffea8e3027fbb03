package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/kvrpc"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

type grpcStoreAdapter struct {
	conn   *grpc.ClientConn
	client kvrpc.KVClient

	accessCode     string
	requestTimeout time.Duration
	retryDelay     time.Duration

	sessionMu    sync.Mutex
	mu           sync.RWMutex
	token        string
	authDisabled bool

	subs   *subscriptions
	logger *logger.Logger
}

// NewGRPCStoreAdapter constructs the gRPC implementation of [StoreAdapter].
// Messages are encoded with the CBOR codec of package kvrpc. The connection
// is established lazily by grpc on the first call.
func NewGRPCStoreAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (StoreAdapter, error) {
	conn, err := grpc.NewClient(adapterCfg.GRPCAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("invalid adapter grpc address: %w", err)
	}

	return newGRPCStoreAdapter(conn, kvrpc.NewKVClient(conn), adapterCfg, appCfg, logger), nil
}

func newGRPCStoreAdapter(conn *grpc.ClientConn, client kvrpc.KVClient, adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) *grpcStoreAdapter {
	return &grpcStoreAdapter{
		conn:           conn,
		client:         client,
		accessCode:     appCfg.AccessCode,
		requestTimeout: adapterCfg.RequestTimeout,
		retryDelay:     defaultRetryDelay,
		subs:           newSubscriptions(),
		logger:         logger,
	}
}

// Get implements [StoreAdapter] via the unary Get call.
func (g *grpcStoreAdapter) Get(ctx context.Context, key string) (models.Entry, error) {
	var entry *kvrpc.Entry
	err := g.unary(ctx, func(ctx context.Context) (err error) {
		entry, err = g.client.Get(ctx, &kvrpc.GetRequest{Key: key})
		return err
	})
	if err != nil {
		return models.Entry{}, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.ToModel(), nil
}

// Set implements [StoreAdapter] via the unary Set call.
func (g *grpcStoreAdapter) Set(ctx context.Context, key string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingValue, err)
	}

	err = g.unary(ctx, func(ctx context.Context) error {
		_, err := g.client.Set(ctx, &kvrpc.SetRequest{Key: key, Value: body})
		return err
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Subscribe implements [StoreAdapter] over the Watch server stream. A broken
// stream is reopened from the last seen version.
func (g *grpcStoreAdapter) Subscribe(ctx context.Context, key string, fn func(models.Entry)) (func(), error) {
	return g.subs.start(ctx, func(ctx context.Context) {
		g.watchLoop(ctx, key, fn)
	})
}

func (g *grpcStoreAdapter) watchLoop(ctx context.Context, key string, fn func(models.Entry)) {
	log := g.logger.GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("key", key)
	})
	log.Debug().Msg("watch started")
	defer log.Debug().Msg("watch stopped")

	var since int64
	for ctx.Err() == nil {
		err := g.watchStream(ctx, key, since, func(entry models.Entry) {
			since = entry.Version
			fn(entry)
		})
		if ctx.Err() != nil {
			return
		}
		if status.Code(err) == codes.Unauthenticated {
			g.setToken("")
		}
		log.Warn().Err(err).Msg("watch stream ended, reopening")
		if !sleepCtx(ctx, g.retryDelay) {
			return
		}
	}
}

func (g *grpcStoreAdapter) watchStream(ctx context.Context, key string, since int64, fn func(models.Entry)) error {
	authCtx, err := g.authorize(ctx)
	if err != nil {
		return err
	}

	stream, err := g.client.Watch(authCtx, &kvrpc.WatchRequest{Key: key, Since: since})
	if err != nil {
		return err
	}

	for {
		entry, err := stream.Recv()
		if err != nil {
			return err
		}
		fn(entry.ToModel())
	}
}

// Close implements [StoreAdapter]. It stops all streams and closes the
// connection.
func (g *grpcStoreAdapter) Close() error {
	g.subs.close()
	if g.conn == nil {
		return nil
	}
	return g.conn.Close()
}

// unary runs call under the request timeout with the session token attached.
// An Unauthenticated answer drops the token and the call is repeated once.
func (g *grpcStoreAdapter) unary(ctx context.Context, call func(ctx context.Context) error) error {
	if g.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
	}

	for attempt := 0; ; attempt++ {
		authCtx, err := g.authorize(ctx)
		if err != nil {
			return err
		}

		err = call(authCtx)
		if status.Code(err) == codes.Unauthenticated && attempt == 0 && g.accessCode != "" {
			g.logger.Debug().Msg("session rejected, logging in again")
			g.setToken("")
			continue
		}
		return mapGRPCError(err)
	}
}

// authorize returns ctx carrying the "authorization" metadata when a session
// is needed, opening the session first if necessary.
func (g *grpcStoreAdapter) authorize(ctx context.Context) (context.Context, error) {
	if g.accessCode == "" {
		return ctx, nil
	}

	g.mu.RLock()
	token, disabled := g.token, g.authDisabled
	g.mu.RUnlock()
	if disabled {
		return ctx, nil
	}

	if token == "" {
		var err error
		if token, err = g.login(ctx); err != nil {
			return ctx, err
		}
		if token == "" {
			return ctx, nil
		}
	}

	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token), nil
}

func (g *grpcStoreAdapter) login(ctx context.Context) (string, error) {
	g.sessionMu.Lock()
	defer g.sessionMu.Unlock()

	if token := g.Token(); token != "" {
		return token, nil
	}

	reply, err := g.client.OpenSession(ctx, &kvrpc.SessionRequest{AccessCode: g.accessCode})
	if err != nil {
		err = mapGRPCError(err)
		if errors.Is(err, ErrNotFound) {
			g.logger.Info().Msg("server has no access control, continuing without session")
			g.mu.Lock()
			g.authDisabled = true
			g.mu.Unlock()
			return "", nil
		}
		return "", fmt.Errorf("open session: %w", err)
	}

	g.setToken(reply.Token)
	g.logger.Debug().Msg("session opened")
	return g.Token(), nil
}

// Token returns the current session token, if any.
func (g *grpcStoreAdapter) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

func (g *grpcStoreAdapter) setToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = strings.TrimSpace(token)
}
