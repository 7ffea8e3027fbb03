package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/mock"
	"github.com/MKhiriev/workshop-qa/internal/store"
	"github.com/MKhiriev/workshop-qa/internal/validators"
	"github.com/MKhiriev/workshop-qa/models"
)

func newTestKVService(storage store.KVStorage, bus store.ChangeBus) (*kvService, *watchService) {
	hub := NewWatchService(storage, bus, logger.Nop()).(*watchService)
	svc := NewKVService(storage, hub, bus, validators.NewEntryValidator(), logger.Nop()).(*kvService)
	return svc, hub
}

func TestKVService_SetAndGet(t *testing.T) {
	svc, _ := newTestKVService(store.NewMemoryKVStorage(), store.NewMemoryChangeBus())
	ctx := context.Background()

	entry, err := svc.Set(ctx, models.QuestionsKey, json.RawMessage(`[ "A", "B" ]`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Version)

	got, err := svc.Get(ctx, models.QuestionsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["A","B"]`, string(got.Value))
	assert.Equal(t, `["A","B"]`, string(got.Value), "value is stored compacted")
}

func TestKVService_Get_NotFound(t *testing.T) {
	svc, _ := newTestKVService(store.NewMemoryKVStorage(), nil)

	_, err := svc.Get(context.Background(), models.ResponsesKey(3))
	assert.ErrorIs(t, err, store.ErrEntryNotFound)
}

func TestKVService_RejectsUnknownKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockKVStorage(ctrl)
	svc, _ := newTestKVService(storage, nil)

	_, err := svc.Get(context.Background(), "user-passwords")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrInvalidKey)

	_, err = svc.Set(context.Background(), "workshop-responses-01", json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestKVService_RejectsWrongShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockKVStorage(ctrl)
	svc, _ := newTestKVService(storage, nil)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"questions as object", models.QuestionsKey, `{"a":1}`},
		{"negative index", models.CurrentIndexKey, `-1`},
		{"responses with negative likes", models.ResponsesKey(0), `[{"id":1,"answer":"x","likes":-2}]`},
		{"null", models.ResponsesKey(0), `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(context.Background(), tt.key, json.RawMessage(tt.value))
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestKVService_Set_PublishesChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockKVStorage(ctrl)
	bus := mock.NewMockChangeBus(ctrl)
	svc, _ := newTestKVService(storage, bus)
	ctx := context.Background()

	stored := models.Entry{Key: models.CurrentIndexKey, Value: json.RawMessage(`2`), Version: 7, UpdatedAt: time.Now()}
	storage.EXPECT().Set(ctx, models.CurrentIndexKey, json.RawMessage(`2`)).Return(stored, nil)
	bus.EXPECT().Publish(ctx, models.Change{Key: models.CurrentIndexKey, Version: 7}).Return(nil)

	entry, err := svc.Set(ctx, models.CurrentIndexKey, json.RawMessage(`2`))
	require.NoError(t, err)
	assert.Equal(t, stored, entry)
}

func TestKVService_Set_PublishFailureKeepsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockKVStorage(ctrl)
	bus := mock.NewMockChangeBus(ctrl)
	svc, _ := newTestKVService(storage, bus)
	ctx := context.Background()

	stored := models.Entry{Key: models.QuestionsKey, Value: json.RawMessage(`[]`), Version: 1}
	storage.EXPECT().Set(ctx, models.QuestionsKey, gomock.Any()).Return(stored, nil)
	bus.EXPECT().Publish(ctx, gomock.Any()).Return(store.ErrPublishingChange)

	entry, err := svc.Set(ctx, models.QuestionsKey, json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Version)
}

func TestKVService_Set_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockKVStorage(ctrl)
	bus := mock.NewMockChangeBus(ctrl)
	svc, _ := newTestKVService(storage, bus)

	dbErr := errors.New("connection reset")
	storage.EXPECT().Set(gomock.Any(), models.QuestionsKey, gomock.Any()).Return(models.Entry{}, dbErr)

	_, err := svc.Set(context.Background(), models.QuestionsKey, json.RawMessage(`["A"]`))
	assert.ErrorIs(t, err, dbErr)
}

func TestKVService_Set_WakesWatchers(t *testing.T) {
	svc, hub := newTestKVService(store.NewMemoryKVStorage(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan models.Entry, 1)
	go func() {
		entry, err := hub.Wait(ctx, models.CurrentIndexKey, 0)
		if err == nil {
			done <- entry
		}
	}()

	require.Eventually(t, func() bool { return hub.watcherCount(models.CurrentIndexKey) == 1 }, time.Second, 5*time.Millisecond)

	_, err := svc.Set(context.Background(), models.CurrentIndexKey, json.RawMessage(`1`))
	require.NoError(t, err)

	select {
	case entry := <-done:
		assert.Equal(t, int64(1), entry.Version)
		assert.JSONEq(t, `1`, string(entry.Value))
	case <-ctx.Done():
		t.Fatal("watcher was not woken")
	}
}
