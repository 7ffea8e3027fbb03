package kvrpc

import (
	"context"

	"google.golang.org/grpc"
)

// Full method names of the workshopqa.KV service.
const (
	ServiceName = "workshopqa.KV"

	OpenSessionMethod = "/workshopqa.KV/OpenSession"
	GetMethod         = "/workshopqa.KV/Get"
	SetMethod         = "/workshopqa.KV/Set"
	WatchMethod       = "/workshopqa.KV/Watch"
)

// KVServer is the server API of the workshopqa.KV service.
type KVServer interface {
	OpenSession(context.Context, *SessionRequest) (*SessionReply, error)
	Get(context.Context, *GetRequest) (*Entry, error)
	Set(context.Context, *SetRequest) (*Entry, error)
	Watch(*WatchRequest, KV_WatchServer) error
}

// KV_WatchServer is the server side of a Watch stream.
type KV_WatchServer interface {
	Send(*Entry) error
	grpc.ServerStream
}

// RegisterKVServer registers srv on s.
func RegisterKVServer(s grpc.ServiceRegistrar, srv KVServer) {
	s.RegisterService(&KV_ServiceDesc, srv)
}

// KV_ServiceDesc describes the workshopqa.KV service for grpc.
var KV_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KVServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OpenSession", Handler: kvOpenSessionHandler},
		{MethodName: "Get", Handler: kvGetHandler},
		{MethodName: "Set", Handler: kvSetHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: kvWatchHandler, ServerStreams: true},
	},
	Metadata: "kvrpc/service.go",
}

func kvOpenSessionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).OpenSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OpenSessionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServer).OpenSession(ctx, req.(*SessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvGetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServer).Get(ctx, req.(*GetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvSetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KVServer).Set(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SetMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KVServer).Set(ctx, req.(*SetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kvWatchHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(KVServer).Watch(in, &kvWatchServer{stream})
}

type kvWatchServer struct {
	grpc.ServerStream
}

func (x *kvWatchServer) Send(m *Entry) error {
	return x.ServerStream.SendMsg(m)
}

// KVClient is the client API of the workshopqa.KV service.
type KVClient interface {
	OpenSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionReply, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*Entry, error)
	Set(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*Entry, error)
	Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (KV_WatchClient, error)
}

// KV_WatchClient is the client side of a Watch stream.
type KV_WatchClient interface {
	Recv() (*Entry, error)
	grpc.ClientStream
}

type kvClient struct {
	cc grpc.ClientConnInterface
}

// NewKVClient returns a client that encodes every call with Codec.
func NewKVClient(cc grpc.ClientConnInterface) KVClient {
	return &kvClient{cc: cc}
}

func (c *kvClient) OpenSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionReply, error) {
	out := new(SessionReply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, OpenSessionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*Entry, error) {
	out := new(Entry)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GetMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) Set(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*Entry, error) {
	out := new(Entry)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, SetMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kvClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (KV_WatchClient, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &KV_ServiceDesc.Streams[0], WatchMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &kvWatchClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type kvWatchClient struct {
	grpc.ClientStream
}

func (x *kvWatchClient) Recv() (*Entry, error) {
	m := new(Entry)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
