package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/workshop-qa/internal/app"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/service"
	"github.com/MKhiriev/workshop-qa/internal/store"
)

var (
	errMissingMetadata = errors.New("missing `authorization` metadata")
	errInvalidScheme   = errors.New("invalid `authorization` metadata")
)

type errorStatus struct {
	code    codes.Code
	message string
}

// errorStatuses is checked in order; the first match wins.
var errorStatuses = []struct {
	target error
	errorStatus
}{
	{service.ErrInvalidDataProvided, errorStatus{codes.InvalidArgument, app.MsgInvalidDataProvided}},
	{service.ErrWrongAccessCode, errorStatus{codes.Unauthenticated, app.MsgInvalidAccessCode}},
	{service.ErrAuthDisabled, errorStatus{codes.NotFound, app.MsgAccessControlDisabled}},
	{service.ErrTokenIsExpired, errorStatus{codes.Unauthenticated, app.MsgTokenIsExpired}},
	{service.ErrTokenIsExpiredOrInvalid, errorStatus{codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid}},
	{store.ErrEntryNotFound, errorStatus{codes.NotFound, app.MsgEntryNotFound}},
	{context.DeadlineExceeded, errorStatus{codes.DeadlineExceeded, app.MsgRequestTimeout}},
	{context.Canceled, errorStatus{codes.Canceled, context.Canceled.Error()}},
}

// statusFromError converts a service error into a gRPC status error and logs
// it. Errors that already carry a status are returned unchanged.
func statusFromError(ctx context.Context, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	resp := errorStatus{codes.Internal, app.MsgInternalServerError}
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			resp = e.errorStatus
			break
		}
	}

	log := logger.FromContext(ctx)
	event := log.Warn()
	if resp.code == codes.Internal {
		event = log.Error()
	}
	event.Err(err).Str("code", resp.code.String()).Msg(resp.message)

	return status.Error(resp.code, resp.message)
}
