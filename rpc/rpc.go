package rpc

import (
	"net"

	"github.com/wfunc/mosaic/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check name of the game service.
const ServiceName = "mosaic.GameServer"

// Server manages the gRPC listener. It serves the standard health service
// so orchestrators can probe the game server.
type Server struct {
	listener net.Listener
	address  string
	grpc     *grpc.Server
	health   *health.Server
}

// NewServer listens on addr and registers the health and reflection services.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: listener,
		address:  listener.Addr().String(),
		grpc:     grpc.NewServer(),
		health:   health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	s.SetServing(true)
	return s, nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	return s.address
}

// SetServing flips both the overall and the game service status.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Start serves until Stop is called.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	if err := s.grpc.Serve(s.listener); err != nil {
		logger.Log.Errorf("RPC server stopped: %v", err)
		return
	}
	logger.Log.Info("RPC server listener closed.")
}

// Stop reports NOT_SERVING and then drains in-flight calls.
func (s *Server) Stop() {
	logger.Log.Info("Stopping RPC server.")
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
