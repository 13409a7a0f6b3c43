package agent

import (
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/mpavic/stagehand/internal/shared/logging"
	"github.com/mpavic/stagehand/internal/shared/proto"
)

// Config holds the agent server knobs.
type Config struct {
	Addr             string
	EnableReflection bool
	KeepaliveMinTime time.Duration
}

// Server serves SubmitService over gRPC.
type Server struct {
	addr       string
	grpcServer *grpc.Server
	logger     logging.Logger
}

func NewServer(cfg Config, logger logging.Logger) *Server {
	grpcServer := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             cfg.KeepaliveMinTime,
			PermitWithoutStream: true,
		}),
	)

	proto.RegisterSubmitServiceServer(grpcServer, NewSubmitService(logger))

	if cfg.EnableReflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		addr:       cfg.Addr,
		grpcServer: grpcServer,
		logger:     logger,
	}
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.logger.Info("Agent listening", "addr", s.addr)
	return s.grpcServer.Serve(lis)
}

// Stop drains in-flight RunTask calls before shutting down, so a submitted
// task is never abandoned without a response.
func (s *Server) Stop() {
	s.logger.Info("Stopping agent", "addr", s.addr)
	s.grpcServer.GracefulStop()
}
