package worker

import (
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/richardissailing/PyAccessibility/telemetry"
)

// serveHealth starts a standard gRPC health endpoint so orchestrators can
// probe the worker. The returned server should be stopped on shutdown.
func serveHealth(addr string, logger *slog.Logger) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus(telemetry.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Warn("health server stopped", "error", err)
		}
	}()
	logger.Info("health endpoint listening", "addr", addr)
	return srv, nil
}
