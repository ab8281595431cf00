package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/commatea/deskd/internal/controller"
	"github.com/commatea/deskd/internal/desk"
	"github.com/commatea/deskd/internal/statefeed"
	"github.com/commatea/deskd/internal/telemetry"
	"github.com/commatea/deskd/internal/units"
)

// ServerConfig configures the RPC facade's listener and gRPC server
// options.
type ServerConfig struct {
	BindAddress      string
	EnableReflection bool
	MaxRecvMsgSize   int
	MaxSendMsgSize   int
}

// DefaultServerConfig returns the facade's default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		BindAddress:      ":9090",
		EnableReflection: true,
		MaxRecvMsgSize:   4 * 1024 * 1024,
		MaxSendMsgSize:   4 * 1024 * 1024,
	}
}

// Server is the RPC facade: it owns a *grpc.Server forced onto the
// JSON codec and a DeskServiceServer implementation that translates
// calls into controller.Command submissions.
type Server struct {
	mu       sync.Mutex
	config   ServerConfig
	driver   *controller.Driver
	log      *slog.Logger
	grpcSrv  *grpc.Server
	listener net.Listener
	running  bool
}

// NewServer builds a Server over driver. log may be nil, in which case
// calls are not logged.
func NewServer(driver *controller.Driver, config ServerConfig, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{config: config, driver: driver, log: log}
}

// Start binds the listener and begins serving in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(s.config.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(s.config.MaxSendMsgSize),
		grpc.ForceServerCodec(jsonCodec{}),
	}
	s.grpcSrv = grpc.NewServer(opts...)

	RegisterDeskServiceServer(s.grpcSrv, &deskServiceImpl{driver: s.driver, log: s.log})

	if s.config.EnableReflection {
		reflection.Register(s.grpcSrv)
	}

	listener, err := net.Listen("tcp", s.config.BindAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.BindAddress, err)
	}
	s.listener = listener

	go func() {
		if err := s.grpcSrv.Serve(listener); err != nil {
			s.log.Error("grpc server stopped serving", "error", err)
		}
	}()

	s.running = true
	return nil
}

// Stop gracefully stops the server, falling back to a hard stop if ctx
// is cancelled first.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.grpcSrv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.grpcSrv.Stop()
	}

	s.running = false
	return nil
}

// Addr returns the address the server is listening on. Only valid
// after a successful Start; mainly useful in tests that bind to
// ":0" and need to discover the assigned port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// deskServiceImpl implements DeskServiceServer by submitting commands
// to a controller.Driver and translating its replies into gRPC
// statuses.
type deskServiceImpl struct {
	driver *controller.Driver
	log    *slog.Logger
}

// GetState implements DeskServiceServer.
func (s *deskServiceImpl) GetState(ctx context.Context, _ *GetStateRequest) (resp *GetStateResponse, err error) {
	callID := uuid.New().String()
	s.log.Info("rpc call", "method", "GetState", "call_id", callID)
	defer func() { telemetry.ObserveRPCCall("GetState", err) }()

	cmd, reply := controller.NewGetStateCommand()
	s.driver.Submit(cmd)

	select {
	case res, ok := <-reply:
		if !ok {
			return nil, status.Error(codes.Unavailable, "controller busy")
		}
		if res.Err != nil {
			s.log.Error("rpc call failed", "method", "GetState", "call_id", callID, "error", res.Err)
			return nil, status.Error(codes.Internal, res.Err.Error())
		}
		s.log.Info("rpc call done", "method", "GetState", "call_id", callID)
		return &GetStateResponse{
			PositionCM:          res.Value.Position.CM(),
			VelocityCMPerSecond: res.Value.Velocity.CMPerSecond(),
		}, nil
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

// Stop implements DeskServiceServer.
func (s *deskServiceImpl) Stop(ctx context.Context, _ *StopRequest) (resp *StopResponse, err error) {
	callID := uuid.New().String()
	s.log.Info("rpc call", "method", "Stop", "call_id", callID)
	defer func() { telemetry.ObserveRPCCall("Stop", err) }()

	cmd, reply := controller.NewStopCommand()
	s.driver.Submit(cmd)

	select {
	case res, ok := <-reply:
		if !ok {
			return nil, status.Error(codes.Unavailable, "controller busy")
		}
		if res.Err != nil {
			s.log.Error("rpc call failed", "method", "Stop", "call_id", callID, "error", res.Err)
			return nil, status.Error(codes.Internal, res.Err.Error())
		}
		s.log.Info("rpc call done", "method", "Stop", "call_id", callID)
		return &StopResponse{}, nil
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

// StartMove implements DeskServiceServer. Out-of-range targets are
// rejected before ever reaching the controller.
func (s *deskServiceImpl) StartMove(ctx context.Context, req *StartMoveRequest) (resp *StartMoveResponse, err error) {
	callID := uuid.New().String()
	s.log.Info("rpc call", "method", "StartMove", "call_id", callID, "target_cm", req.TargetCM)
	defer func() { telemetry.ObserveRPCCall("StartMove", err) }()

	target, posErr := units.NewPositionFromCM(req.TargetCM)
	if posErr != nil {
		s.log.Error("rpc call rejected", "method", "StartMove", "call_id", callID, "error", posErr)
		return nil, status.Error(codes.OutOfRange, posErr.Error())
	}

	cmd, reply := controller.NewMoveToCommand(target)
	s.driver.Submit(cmd)

	select {
	case res, ok := <-reply:
		if !ok {
			return nil, status.Error(codes.Unavailable, "controller busy")
		}
		if res.Err != nil {
			s.log.Error("rpc call failed", "method", "StartMove", "call_id", callID, "error", res.Err)
			return nil, status.Error(codes.Internal, res.Err.Error())
		}
		s.log.Info("rpc call done", "method", "StartMove", "call_id", callID)
		return &StartMoveResponse{}, nil
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

// SubscribeState implements DeskServiceServer.
func (s *deskServiceImpl) SubscribeState(_ *SubscribeStateRequest, stream DeskService_SubscribeStateServer) (err error) {
	callID := uuid.New().String()
	s.log.Info("rpc call", "method", "SubscribeState", "call_id", callID)
	defer func() {
		telemetry.ObserveRPCCall("SubscribeState", err)
		if err != nil {
			s.log.Error("rpc call failed", "method", "SubscribeState", "call_id", callID, "error", err)
		} else {
			s.log.Info("rpc call done", "method", "SubscribeState", "call_id", callID)
		}
	}()

	cmd, reply := controller.NewSubscribeStateCommand()
	s.driver.Submit(cmd)

	var recv *statefeed.Receiver[desk.DeskState]
	select {
	case res, ok := <-reply:
		if !ok {
			return status.Error(codes.Unavailable, "controller busy")
		}
		if res.Err != nil {
			return status.Error(codes.Internal, res.Err.Error())
		}
		recv = res.Value
	case <-stream.Context().Done():
		return status.FromContextError(stream.Context().Err()).Err()
	}

	for {
		state, ok := recv.Next(stream.Context().Done())
		if !ok {
			return status.FromContextError(stream.Context().Err()).Err()
		}
		if err := stream.Send(&StateUpdate{
			PositionCM:          state.Position.CM(),
			VelocityCMPerSecond: state.Velocity.CMPerSecond(),
		}); err != nil {
			return err
		}
	}
}
