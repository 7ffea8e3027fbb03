package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/kvrpc"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/mock"
	"github.com/MKhiriev/workshop-qa/internal/service"
	"github.com/MKhiriev/workshop-qa/internal/store"
	"github.com/MKhiriev/workshop-qa/internal/validators"
	"github.com/MKhiriev/workshop-qa/models"
)

type testServices struct {
	kv    *mock.MockKVService
	watch *mock.MockWatchService
	auth  *mock.MockAuthService
}

// startServer serves a Handler backed by gomock services over bufconn and
// returns a connected client.
func startServer(t *testing.T, authEnabled bool) (kvrpc.KVClient, testServices) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mocks := testServices{
		kv:    mock.NewMockKVService(ctrl),
		watch: mock.NewMockWatchService(ctrl),
		auth:  mock.NewMockAuthService(ctrl),
	}
	mocks.auth.EXPECT().Enabled().Return(authEnabled).AnyTimes()

	services := &service.Services{
		KVService:    mocks.kv,
		WatchService: mocks.watch,
		AuthService:  mocks.auth,
	}
	cfg := config.StructuredConfig{Server: config.Server{RequestTimeout: time.Second}}
	h := NewHandler(services, cfg, logger.Nop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(h.UnaryInterceptors()...),
		grpc.ChainStreamInterceptor(h.StreamInterceptors()...),
	)
	kvrpc.RegisterKVServer(srv, h)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return kvrpc.NewKVClient(conn), mocks
}

func TestGet(t *testing.T) {
	client, mocks := startServer(t, false)
	updated := time.UnixMilli(1_700_000_000_000).UTC()

	mocks.kv.EXPECT().Get(gomock.Any(), models.QuestionsKey).
		Return(models.Entry{Key: models.QuestionsKey, Value: json.RawMessage(`["A"]`), Version: 2, UpdatedAt: updated}, nil)

	got, err := client.Get(context.Background(), &kvrpc.GetRequest{Key: models.QuestionsKey})
	require.NoError(t, err)

	entry := got.ToModel()
	assert.Equal(t, models.QuestionsKey, entry.Key)
	assert.JSONEq(t, `["A"]`, string(entry.Value))
	assert.Equal(t, int64(2), entry.Version)
	assert.True(t, updated.Equal(entry.UpdatedAt))
}

func TestGet_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"absent", fmt.Errorf("get: %w", store.ErrEntryNotFound), codes.NotFound},
		{"invalid key", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, validators.ErrInvalidKey), codes.InvalidArgument},
		{"storage", fmt.Errorf("get: %w", store.ErrExecutingQuery), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mocks := startServer(t, false)
			mocks.kv.EXPECT().Get(gomock.Any(), gomock.Any()).Return(models.Entry{}, tt.err)

			_, err := client.Get(context.Background(), &kvrpc.GetRequest{Key: "k"})
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestSet(t *testing.T) {
	client, mocks := startServer(t, false)

	mocks.kv.EXPECT().Set(gomock.Any(), models.CurrentIndexKey, json.RawMessage(`1`)).
		DoAndReturn(func(ctx context.Context, key string, value json.RawMessage) (models.Entry, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return models.Entry{Key: key, Value: value, Version: 9}, nil
		})

	got, err := client.Set(context.Background(), &kvrpc.SetRequest{Key: models.CurrentIndexKey, Value: []byte(`1`)})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Version)
}

func TestSet_RejectsInvalidJSON(t *testing.T) {
	client, _ := startServer(t, false)

	_, err := client.Set(context.Background(), &kvrpc.SetRequest{Key: models.QuestionsKey, Value: []byte(`[`)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestWatch_StreamsEntries(t *testing.T) {
	client, mocks := startServer(t, false)

	mocks.watch.EXPECT().Watch(gomock.Any(), models.QuestionsKey, int64(1), gomock.Any()).
		DoAndReturn(func(ctx context.Context, key string, since int64, send func(models.Entry) error) error {
			for v := since + 1; v <= since+2; v++ {
				if err := send(models.Entry{Key: key, Value: json.RawMessage(`[]`), Version: v}); err != nil {
					return err
				}
			}
			return nil
		})

	stream, err := client.Watch(context.Background(), &kvrpc.WatchRequest{Key: models.QuestionsKey, Since: 1})
	require.NoError(t, err)

	var versions []int64
	for {
		entry, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		versions = append(versions, entry.Version)
	}
	assert.Equal(t, []int64{2, 3}, versions)
}

func TestWatch_UnknownKey(t *testing.T) {
	client, _ := startServer(t, false)

	stream, err := client.Watch(context.Background(), &kvrpc.WatchRequest{Key: "secrets"})
	require.NoError(t, err)

	_, err = stream.Recv()
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAuth(t *testing.T) {
	client, mocks := startServer(t, true)

	t.Run("missing metadata", func(t *testing.T) {
		_, err := client.Get(context.Background(), &kvrpc.GetRequest{Key: models.QuestionsKey})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), authorizationMD, "Basic abc")
		_, err := client.Get(ctx, &kvrpc.GetRequest{Key: models.QuestionsKey})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("expired token", func(t *testing.T) {
		mocks.auth.EXPECT().ParseToken(gomock.Any(), "old").Return(models.Token{}, service.ErrTokenIsExpired)

		ctx := metadata.AppendToOutgoingContext(context.Background(), authorizationMD, "Bearer old")
		_, err := client.Get(ctx, &kvrpc.GetRequest{Key: models.QuestionsKey})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid token on stream", func(t *testing.T) {
		mocks.auth.EXPECT().ParseToken(gomock.Any(), "good").Return(models.Token{ClientID: "c1"}, nil)
		mocks.watch.EXPECT().Watch(gomock.Any(), models.CurrentIndexKey, int64(0), gomock.Any()).Return(nil)

		ctx := metadata.AppendToOutgoingContext(context.Background(), authorizationMD, "Bearer good")
		stream, err := client.Watch(ctx, &kvrpc.WatchRequest{Key: models.CurrentIndexKey})
		require.NoError(t, err)

		_, err = stream.Recv()
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestOpenSession(t *testing.T) {
	client, mocks := startServer(t, true)

	mocks.auth.EXPECT().Login(gomock.Any(), models.SessionRequest{AccessCode: "gopher"}).
		Return(models.Token{SignedString: "jwt", ClientID: "c1"}, nil)
	mocks.auth.EXPECT().Login(gomock.Any(), models.SessionRequest{AccessCode: "nope"}).
		Return(models.Token{}, service.ErrWrongAccessCode)

	reply, err := client.OpenSession(context.Background(), &kvrpc.SessionRequest{AccessCode: "gopher"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", reply.Token)

	_, err = client.OpenSession(context.Background(), &kvrpc.SessionRequest{AccessCode: "nope"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestStatusFromError_KeepsExistingStatus(t *testing.T) {
	in := status.Error(codes.ResourceExhausted, "slow down")
	assert.Equal(t, in, statusFromError(context.Background(), in))
}
