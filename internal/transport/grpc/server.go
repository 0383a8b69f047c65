package grpc_server

import (
	"context"
	"net"
	"time"

	"glassbird/internal/platform/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported to health probes for the whole platform.
const ServiceName = "glassbird"

// Check reports whether one backing dependency is reachable.
type Check func(ctx context.Context) error

// Server is the operational gRPC endpoint. It carries the standard health
// service and reflection.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	log    *logger.Logger
}

func NewServer(log *logger.Logger) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
		log:    log.With("component", "grpc"),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc server listening", "addr", lis.Addr().String())
	return s.grpc.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// Probe runs every check and flips the serving status accordingly.
func (s *Server) Probe(ctx context.Context, checks map[string]Check) bool {
	for name, check := range checks {
		if err := check(ctx); err != nil {
			s.log.Warn("health check failed", "dependency", name, "error", err)
			s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
			return false
		}
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return true
}

// Watch probes once immediately and then every interval until ctx ends.
func (s *Server) Watch(ctx context.Context, interval time.Duration, checks map[string]Check) {
	s.Probe(ctx, checks)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx, checks)
		}
	}
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
