package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// DeskServiceServer is the method set any DeskService implementation
// must provide. This mirrors what protoc-gen-go-grpc would generate
// from desk.proto; it is hand-written here because no protoc toolchain
// ran against that file (see codec.go).
type DeskServiceServer interface {
	GetState(context.Context, *GetStateRequest) (*GetStateResponse, error)
	SubscribeState(*SubscribeStateRequest, DeskService_SubscribeStateServer) error
	Stop(context.Context, *StopRequest) (*StopResponse, error)
	StartMove(context.Context, *StartMoveRequest) (*StartMoveResponse, error)
}

// DeskService_SubscribeStateServer is the server-side stream handle
// for SubscribeState.
type DeskService_SubscribeStateServer interface {
	Send(*StateUpdate) error
	grpc.ServerStream
}

type deskServiceSubscribeStateServer struct {
	grpc.ServerStream
}

func (x *deskServiceSubscribeStateServer) Send(m *StateUpdate) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterDeskServiceServer registers srv on s.
func RegisterDeskServiceServer(s grpc.ServiceRegistrar, srv DeskServiceServer) {
	s.RegisterService(&deskServiceServiceDesc, srv)
}

func _DeskService_GetState_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetStateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeskServiceServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/deskd.DeskService/GetState",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DeskServiceServer).GetState(ctx, req.(*GetStateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DeskService_Stop_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StopRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeskServiceServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/deskd.DeskService/Stop",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DeskServiceServer).Stop(ctx, req.(*StopRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DeskService_StartMove_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StartMoveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DeskServiceServer).StartMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/deskd.DeskService/StartMove",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DeskServiceServer).StartMove(ctx, req.(*StartMoveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DeskService_SubscribeState_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeStateRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DeskServiceServer).SubscribeState(m, &deskServiceSubscribeStateServer{stream})
}

// deskServiceServiceDesc is the ServiceDesc a protoc-gen-go-grpc run
// against desk.proto would have emitted.
var deskServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: "deskd.DeskService",
	HandlerType: (*DeskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: _DeskService_GetState_Handler},
		{MethodName: "Stop", Handler: _DeskService_Stop_Handler},
		{MethodName: "StartMove", Handler: _DeskService_StartMove_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SubscribeState",
			Handler:       _DeskService_SubscribeState_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "desk.proto",
}
