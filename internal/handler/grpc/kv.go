package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/workshop-qa/internal/kvrpc"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

// Get returns the current entry stored under the requested key.
func (h *Handler) Get(ctx context.Context, req *kvrpc.GetRequest) (*kvrpc.Entry, error) {
	entry, err := h.services.KVService.Get(ctx, req.Key)
	if err != nil {
		return nil, statusFromError(ctx, err)
	}
	return kvrpc.FromModel(entry), nil
}

// Set stores the JSON value and returns the entry with its new version.
func (h *Handler) Set(ctx context.Context, req *kvrpc.SetRequest) (*kvrpc.Entry, error) {
	if !json.Valid(req.Value) {
		return nil, status.Error(codes.InvalidArgument, "value is not valid JSON")
	}

	entry, err := h.services.KVService.Set(ctx, req.Key, json.RawMessage(req.Value))
	if err != nil {
		return nil, statusFromError(ctx, err)
	}

	logger.FromContext(ctx).Debug().Str("key", req.Key).Int64("version", entry.Version).Msg("entry updated")
	return kvrpc.FromModel(entry), nil
}

// Watch streams every new version of the key past req.Since until the client
// cancels the stream.
func (h *Handler) Watch(req *kvrpc.WatchRequest, stream kvrpc.KV_WatchServer) error {
	ctx := stream.Context()
	if !models.IsKnownKey(req.Key) {
		return status.Errorf(codes.InvalidArgument, "unknown key %q", req.Key)
	}
	if req.Since < 0 {
		return status.Error(codes.InvalidArgument, "since must be non-negative")
	}

	err := h.services.WatchService.Watch(ctx, req.Key, req.Since, func(entry models.Entry) error {
		return stream.Send(kvrpc.FromModel(entry))
	})
	if err != nil {
		return statusFromError(ctx, err)
	}
	return nil
}
