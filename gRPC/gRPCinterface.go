package proto

import (
	"LineCrossServer/engine"
	iface "LineCrossServer/interface"
	"LineCrossServer/logger"
	"LineCrossServer/monitor"
	"context"
	"encoding/json"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type Server struct {
	Processor iface.FrameProcessor
	Monitor   *monitor.Monitor
}

// StructToPayload 把 Struct 转回 JSON 再解析成 FramePayload
func StructToPayload(in *structpb.Struct) (iface.FramePayload, error) {
	var payload iface.FramePayload
	raw, err := protojson.Marshal(in)
	if err != nil {
		return payload, err
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// ToStruct encodes any JSON-marshalable value as a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Server) ProcessFrame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.Monitor != nil {
		s.Monitor.Request("grpc")
	}
	payload, err := StructToPayload(req)
	if err != nil {
		logger.Log().Warn("invalid frame payload", zap.Error(err))
		return nil, status.Errorf(codes.InvalidArgument, "invalid frame payload: %v", err)
	}
	result := s.Processor.ProcessFrame(payload.ToFrame())
	out, err := ToStruct(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

func (s *Server) Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"frame_index": float64(s.Processor.FrameIndex()),
		"state":       engine.StateName(s.Processor.State()),
		"line":        s.Processor.LineDescriptor(),
	})
}

func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	s := grpc.NewServer(opts...)
	RegisterFrameServiceServer(s, srv)
	return s
}

func StartGRPCServer(addr int, srv *Server) (*grpc.Server, error) {
	port := fmt.Sprintf(":%d", addr)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %s: %w", port, err)
	}
	s := NewGRPCServer(srv)
	go func() {
		logger.Log().Info("gRPC server listening", zap.String("port", port))
		if err := s.Serve(lis); err != nil {
			logger.Log().Error("Failed to serve gRPC server", zap.Error(err))
		}
	}()
	return s, nil
}
