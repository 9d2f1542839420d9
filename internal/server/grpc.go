package server

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/alfredjeanlab/eventlog/internal/identity"
)

// ServiceName is the health service name reported for the event log.
const ServiceName = "eventlog"

// NewGRPCServer creates a gRPC server with standard interceptors, registers
// the health service and reflection, and returns both ready to serve.
//
// The gRPC port carries liveness and reflection only; the event API is
// served over HTTP. Health checks need no token; reflection requires one
// when v is set.
func NewGRPCServer(v *identity.Verifier) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
			AuthInterceptor(v),
		),
		grpc.ChainStreamInterceptor(
			StreamAuthInterceptor(v),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return srv, hs
}

// WatchHealth pings db every interval and reports the result on hs until ctx
// is done.
func WatchHealth(ctx context.Context, hs *health.Server, db Pinger, interval time.Duration, logger *slog.Logger) {
	check := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if err := db.Ping(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("health: database unreachable", "err", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus(ServiceName, status)
		hs.SetServingStatus("", status)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
