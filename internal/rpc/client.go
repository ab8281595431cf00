package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// DeskServiceClient is the client-side method set for DeskService. This
// mirrors what protoc-gen-go-grpc would generate from desk.proto, hand
// written for the same reason service.go's server side is: no protoc
// toolchain ran against desk.proto.
type DeskServiceClient interface {
	GetState(ctx context.Context, in *GetStateRequest, opts ...grpc.CallOption) (*GetStateResponse, error)
	Stop(ctx context.Context, in *StopRequest, opts ...grpc.CallOption) (*StopResponse, error)
	StartMove(ctx context.Context, in *StartMoveRequest, opts ...grpc.CallOption) (*StartMoveResponse, error)
	SubscribeState(ctx context.Context, in *SubscribeStateRequest, opts ...grpc.CallOption) (DeskService_SubscribeStateClient, error)
}

type deskServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDeskServiceClient wraps cc in a DeskServiceClient. cc must have
// been dialed with ForceCodec(jsonCodec{}) (see DialOption).
func NewDeskServiceClient(cc grpc.ClientConnInterface) DeskServiceClient {
	return &deskServiceClient{cc: cc}
}

// DialOption forces the JSON wire codec service.go's server side
// expects; pass it to grpc.NewClient alongside transport credentials.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{}))
}

func (c *deskServiceClient) GetState(ctx context.Context, in *GetStateRequest, opts ...grpc.CallOption) (*GetStateResponse, error) {
	out := new(GetStateResponse)
	if err := c.cc.Invoke(ctx, "/deskd.DeskService/GetState", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deskServiceClient) Stop(ctx context.Context, in *StopRequest, opts ...grpc.CallOption) (*StopResponse, error) {
	out := new(StopResponse)
	if err := c.cc.Invoke(ctx, "/deskd.DeskService/Stop", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deskServiceClient) StartMove(ctx context.Context, in *StartMoveRequest, opts ...grpc.CallOption) (*StartMoveResponse, error) {
	out := new(StartMoveResponse)
	if err := c.cc.Invoke(ctx, "/deskd.DeskService/StartMove", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DeskService_SubscribeStateClient is the client-side stream handle
// for SubscribeState.
type DeskService_SubscribeStateClient interface {
	Recv() (*StateUpdate, error)
	grpc.ClientStream
}

type deskServiceSubscribeStateClient struct {
	grpc.ClientStream
}

func (x *deskServiceSubscribeStateClient) Recv() (*StateUpdate, error) {
	m := new(StateUpdate)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *deskServiceClient) SubscribeState(ctx context.Context, in *SubscribeStateRequest, opts ...grpc.CallOption) (DeskService_SubscribeStateClient, error) {
	stream, err := c.cc.NewStream(ctx, &deskServiceServiceDesc.Streams[0], "/deskd.DeskService/SubscribeState", opts...)
	if err != nil {
		return nil, err
	}
	x := &deskServiceSubscribeStateClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
