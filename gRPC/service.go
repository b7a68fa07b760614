package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Frames travel as google.protobuf.Struct holding the JSON frame payload, so the service
// needs no generated message types.
//
//	service FrameService {
//	  rpc ProcessFrame(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc Status(google.protobuf.Empty) returns (google.protobuf.Struct);
//	}
const (
	FrameService_ServiceName                 = "linecross.FrameService"
	FrameService_ProcessFrame_FullMethodName = "/linecross.FrameService/ProcessFrame"
	FrameService_Status_FullMethodName       = "/linecross.FrameService/Status"
)

type FrameServiceServer interface {
	ProcessFrame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterFrameServiceServer(s grpc.ServiceRegistrar, srv FrameServiceServer) {
	s.RegisterService(&FrameService_ServiceDesc, srv)
}

func _FrameService_ProcessFrame_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrameServiceServer).ProcessFrame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FrameService_ProcessFrame_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FrameServiceServer).ProcessFrame(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _FrameService_Status_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrameServiceServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FrameService_Status_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FrameServiceServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var FrameService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: FrameService_ServiceName,
	HandlerType: (*FrameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProcessFrame",
			Handler:    _FrameService_ProcessFrame_Handler,
		},
		{
			MethodName: "Status",
			Handler:    _FrameService_Status_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "linecross.proto",
}

type FrameServiceClient interface {
	ProcessFrame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type frameServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFrameServiceClient(cc grpc.ClientConnInterface) FrameServiceClient {
	return &frameServiceClient{cc}
}

func (c *frameServiceClient) ProcessFrame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FrameService_ProcessFrame_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *frameServiceClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FrameService_Status_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
