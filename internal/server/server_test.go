package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/handler"
	myGRPC "github.com/MKhiriev/workshop-qa/internal/handler/grpc"
	myHTTP "github.com/MKhiriev/workshop-qa/internal/handler/http"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/mock"
	"github.com/MKhiriev/workshop-qa/internal/service"
	"github.com/MKhiriev/workshop-qa/internal/workers"
)

func newTestHandlers(t *testing.T, cfg config.StructuredConfig) *handler.Handlers {
	t.Helper()
	ctrl := gomock.NewController(t)

	auth := mock.NewMockAuthService(ctrl)
	auth.EXPECT().Enabled().Return(false).AnyTimes()
	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("test").AnyTimes()

	services := &service.Services{
		KVService:      mock.NewMockKVService(ctrl),
		WatchService:   mock.NewMockWatchService(ctrl),
		AuthService:    auth,
		AppInfoService: appInfo,
	}

	return &handler.Handlers{
		HTTP: myHTTP.NewHandler(services, cfg, logger.Nop()),
		GRPC: myGRPC.NewHandler(services, cfg, logger.Nop()),
	}
}

func TestNewServer_NoAddresses(t *testing.T) {
	cfg := config.StructuredConfig{}

	s, err := NewServer(newTestHandlers(t, cfg), nil, cfg.Server, logger.Nop())

	assert.ErrorIs(t, err, errNoListeners)
	assert.Nil(t, s)
}

func TestNewServer_ListenError(t *testing.T) {
	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: "256.0.0.1:bad"}}

	_, err := NewServer(newTestHandlers(t, cfg), nil, cfg.Server, logger.Nop())

	assert.Error(t, err)
}

func TestServer_RunAndShutdown(t *testing.T) {
	cfg := config.StructuredConfig{Server: config.Server{
		HTTPAddress: "127.0.0.1:0",
		GRPCAddress: "127.0.0.1:0",
	}}

	workerStopped := make(chan struct{})
	bg := workers.NewWorkers(logger.Nop()).Add("relay", workers.Func(func(ctx context.Context) error {
		<-ctx.Done()
		close(workerStopped)
		return nil
	}))

	s, err := NewServer(newTestHandlers(t, cfg), bg, cfg.Server, logger.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.RunServer()
		close(done)
	}()

	url := "http://" + s.(*server).httpServer.Addr() + "/api/version/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "test"
	}, 2*time.Second, 20*time.Millisecond)

	s.Shutdown()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("RunServer did not return after Shutdown")
	}
	select {
	case <-workerStopped:
	default:
		t.Fatal("worker was not stopped")
	}
}

func TestServer_FailingWorkerStopsServer(t *testing.T) {
	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: "127.0.0.1:0"}}

	bg := workers.NewWorkers(logger.Nop()).Add("broken", workers.Func(func(ctx context.Context) error {
		return errors.New("redis is gone")
	}))

	s, err := NewServer(newTestHandlers(t, cfg), bg, cfg.Server, logger.Nop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.(*server).run() }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "redis is gone")
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after worker failure")
	}
}
