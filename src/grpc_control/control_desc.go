package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "salesobserver.control.v1.AnalyticsControl"

// Method names
const (
	MethodGetStatus = "/" + ServiceName + "/GetStatus"
	MethodGetReport = "/" + ServiceName + "/GetReport"
	MethodReload    = "/" + ServiceName + "/Reload"
)

// AnalyticsControlServer is the server API. Requests are empty and every
// answer is a google.protobuf.Struct holding the JSON form of the result.
type AnalyticsControlServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetReport(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Reload(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// -----------------------------------------------------------------------------

func RegisterAnalyticsControlServer(s grpc.ServiceRegistrar, srv AnalyticsControlServer) {
	s.RegisterService(&AnalyticsControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func unaryHandler(method string, call func(AnalyticsControlServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AnalyticsControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AnalyticsControlServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AnalyticsControl_ServiceDesc describes the service for grpc.Server.
var AnalyticsControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyticsControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler:    unaryHandler(MethodGetStatus, AnalyticsControlServer.GetStatus),
		},
		{
			MethodName: "GetReport",
			Handler:    unaryHandler(MethodGetReport, AnalyticsControlServer.GetReport),
		},
		{
			MethodName: "Reload",
			Handler:    unaryHandler(MethodReload, AnalyticsControlServer.Reload),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "salesobserver/control/v1/control.proto",
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type AnalyticsControlClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalyticsControlClient(cc grpc.ClientConnInterface) *AnalyticsControlClient {
	return &AnalyticsControlClient{cc: cc}
}

func (c *AnalyticsControlClient) call(ctx context.Context, method string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AnalyticsControlClient) GetStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, MethodGetStatus, opts...)
}

func (c *AnalyticsControlClient) GetReport(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, MethodGetReport, opts...)
}

func (c *AnalyticsControlClient) Reload(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, MethodReload, opts...)
}
