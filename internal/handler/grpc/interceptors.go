package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/workshop-qa/internal/kvrpc"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/utils"
)

const (
	authorizationMD = "authorization"
	traceIDMD       = "x-trace-id"
)

// UnaryInterceptors returns the interceptor chain for unary calls:
// request logging, optional authentication and the request timeout.
func (h *Handler) UnaryInterceptors() []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{h.unaryLogging, h.unaryAuth, h.unaryTimeout}
}

// StreamInterceptors returns the interceptor chain for streaming calls.
func (h *Handler) StreamInterceptors() []grpc.StreamServerInterceptor {
	return []grpc.StreamServerInterceptor{h.streamLogging, h.streamAuth}
}

func (h *Handler) unaryLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	ctx = h.withTraceID(ctx)
	start := time.Now()

	resp, err := next(ctx, req)

	h.logCall(ctx, info.FullMethod, start, err)
	return resp, err
}

func (h *Handler) streamLogging(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, next grpc.StreamHandler) error {
	ctx := h.withTraceID(ss.Context())
	start := time.Now()

	err := next(srv, &serverStream{ServerStream: ss, ctx: ctx})

	h.logCall(ctx, info.FullMethod, start, err)
	return err
}

func (h *Handler) unaryAuth(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	if info.FullMethod == kvrpc.OpenSessionMethod {
		return next(ctx, req)
	}
	ctx, err := h.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return next(ctx, req)
}

func (h *Handler) streamAuth(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, next grpc.StreamHandler) error {
	ctx, err := h.authenticate(ss.Context())
	if err != nil {
		return err
	}
	return next(srv, &serverStream{ServerStream: ss, ctx: ctx})
}

func (h *Handler) unaryTimeout(ctx context.Context, req any, _ *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	if h.requestTimeout <= 0 {
		return next(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()
	return next(ctx, req)
}

// authenticate checks the bearer token from the "authorization" metadata
// when access control is enabled and stores the client ID in ctx.
func (h *Handler) authenticate(ctx context.Context) (context.Context, error) {
	if !h.services.AuthService.Enabled() {
		return ctx, nil
	}

	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get(authorizationMD)
	if len(values) == 0 {
		return ctx, status.Error(codes.Unauthenticated, errMissingMetadata.Error())
	}

	scheme, tokenString, found := strings.Cut(strings.TrimSpace(values[0]), " ")
	tokenString = strings.TrimSpace(tokenString)
	if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
		return ctx, status.Error(codes.Unauthenticated, errInvalidScheme.Error())
	}

	token, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		return ctx, statusFromError(ctx, err)
	}

	ctx = context.WithValue(ctx, utils.ClientIDCtxKey, token.ClientID)
	log := logger.FromContext(ctx).GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("client_id", token.ClientID)
	})
	return log.WithContext(ctx), nil
}

// withTraceID reuses the caller's x-trace-id metadata or generates one and
// attaches a logger carrying it.
func (h *Handler) withTraceID(ctx context.Context) context.Context {
	var traceID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(traceIDMD); len(values) > 0 {
			traceID = values[0]
		}
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}

	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})

	ctx = context.WithValue(ctx, utils.TraceIDCtxKey, traceID)
	return l.WithContext(ctx)
}

func (h *Handler) logCall(ctx context.Context, method string, start time.Time, err error) {
	code := status.Code(err)

	level := zerolog.InfoLevel
	switch code {
	case codes.OK, codes.Canceled:
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.WarnLevel
	}

	logger.FromContext(ctx).WithLevel(level).
		Str("method", method).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Send()
}

// serverStream overrides the context of a wrapped stream.
type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *serverStream) Context() context.Context {
	return s.ctx
}
