package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/utils"
	"github.com/MKhiriev/workshop-qa/models"
)

const (
	// defaultWatchTimeout is asked from the server per long-poll request.
	defaultWatchTimeout = 25 * time.Second

	// defaultRetryDelay separates failed watch attempts.
	defaultRetryDelay = time.Second
)

type httpStoreAdapter struct {
	client      *utils.HTTPClient
	watchClient *utils.HTTPClient

	accessCode string
	hashKey    string

	watchTimeout time.Duration
	retryDelay   time.Duration

	// sessionMu serializes logins.
	sessionMu    sync.Mutex
	mu           sync.RWMutex
	token        string
	authDisabled bool

	subs   *subscriptions
	logger *logger.Logger
}

// NewHTTPStoreAdapter constructs the HTTP implementation of [StoreAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress.
// Plain get and set requests are bounded by adapterCfg.RequestTimeout; watch
// requests by the long-poll timeout plus the same margin.
//
// When appCfg.AccessCode is set the adapter opens a session on first use and
// sends the token with every request.
func NewHTTPStoreAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (StoreAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpStoreAdapter{
		client:       utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		watchClient:  utils.NewHTTPClient(baseURL, defaultWatchTimeout+adapterCfg.RequestTimeout),
		accessCode:   appCfg.AccessCode,
		hashKey:      appCfg.HashKey,
		watchTimeout: defaultWatchTimeout,
		retryDelay:   defaultRetryDelay,
		subs:         newSubscriptions(),
		logger:       logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Get implements [StoreAdapter] via GET /api/kv/{key}.
func (h *httpStoreAdapter) Get(ctx context.Context, key string) (models.Entry, error) {
	resp, err := h.do(ctx, h.client, func(req *resty.Request) (*resty.Response, error) {
		return req.SetPathParam("key", key).Get("/api/kv/{key}")
	})
	if err != nil {
		return models.Entry{}, fmt.Errorf("get %s: %w", key, err)
	}

	var entry models.Entry
	if err = json.Unmarshal(resp.Body(), &entry); err != nil {
		return models.Entry{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return entry, nil
}

// Set implements [StoreAdapter] via PUT /api/kv/{key}. When a hash key is
// configured the body is signed with the HashSHA256 header.
func (h *httpStoreAdapter) Set(ctx context.Context, key string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingValue, err)
	}

	_, err = h.do(ctx, h.client, func(req *resty.Request) (*resty.Response, error) {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
		if h.hashKey != "" {
			req.SetHeader(utils.HashHeader, utils.HashBytes(body, h.hashKey))
		}
		return req.SetPathParam("key", key).Put("/api/kv/{key}")
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Subscribe implements [StoreAdapter] by long-polling
// GET /api/kv/{key}/watch?since={version}. Failed polls are retried after a
// short delay.
func (h *httpStoreAdapter) Subscribe(ctx context.Context, key string, fn func(models.Entry)) (func(), error) {
	return h.subs.start(ctx, func(ctx context.Context) {
		h.watchLoop(ctx, key, fn)
	})
}

func (h *httpStoreAdapter) watchLoop(ctx context.Context, key string, fn func(models.Entry)) {
	log := h.logger.GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("key", key)
	})
	log.Debug().Msg("watch started")
	defer log.Debug().Msg("watch stopped")

	var since int64
	for ctx.Err() == nil {
		entry, changed, err := h.watchOnce(ctx, key, since)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("watch request failed, retrying")
			if !sleepCtx(ctx, h.retryDelay) {
				return
			}
		case changed:
			since = entry.Version
			fn(entry)
		}
	}
}

func (h *httpStoreAdapter) watchOnce(ctx context.Context, key string, since int64) (models.Entry, bool, error) {
	resp, err := h.do(ctx, h.watchClient, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetPathParam("key", key).
			SetQueryParam("since", strconv.FormatInt(since, 10)).
			SetQueryParam("timeout", h.watchTimeout.String()).
			Get("/api/kv/{key}/watch")
	})
	if err != nil {
		return models.Entry{}, false, err
	}
	if resp.StatusCode() == http.StatusNoContent {
		return models.Entry{}, false, nil
	}

	var entry models.Entry
	if err = json.Unmarshal(resp.Body(), &entry); err != nil {
		return models.Entry{}, false, fmt.Errorf("decode watched %s: %w", key, err)
	}
	return entry, true, nil
}

// Close implements [StoreAdapter]. It stops all watch loops.
func (h *httpStoreAdapter) Close() error {
	h.subs.close()
	return nil
}

// do sends a request with the session token attached. A 401 answer drops the
// token and the request is repeated once with a fresh session.
func (h *httpStoreAdapter) do(ctx context.Context, client *utils.HTTPClient, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := h.ensureSession(ctx); err != nil {
			return nil, err
		}

		req := client.R().SetContext(ctx)
		if token := h.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}

		resp, err := send(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		if resp.StatusCode() == http.StatusUnauthorized && attempt == 0 && h.accessCode != "" {
			h.logger.Debug().Msg("session rejected, logging in again")
			h.setToken("")
			continue
		}

		return resp, mapHTTPError(resp)
	}
}

// Token returns the current session token, if any.
func (h *httpStoreAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpStoreAdapter) setToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpStoreAdapter) ensureSession(ctx context.Context) error {
	if h.accessCode == "" {
		return nil
	}

	h.mu.RLock()
	ready := h.token != "" || h.authDisabled
	h.mu.RUnlock()
	if ready {
		return nil
	}

	return h.login(ctx)
}

// login exchanges the access code for a token via POST /api/session. A 404
// means the server runs without access control; the adapter then stops
// trying.
func (h *httpStoreAdapter) login(ctx context.Context) error {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()

	if h.Token() != "" {
		return nil
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SessionRequest{AccessCode: h.accessCode}).
		Post("/api/session")
	if err != nil {
		return fmt.Errorf("session request: %w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.logger.Info().Msg("server has no access control, continuing without session")
			h.mu.Lock()
			h.authDisabled = true
			h.mu.Unlock()
			return nil
		}
		return fmt.Errorf("open session: %w", err)
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("session parse bearer token: %w", err)
	}

	h.setToken(token)
	h.logger.Debug().Msg("session opened")
	return nil
}
