package grpc

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/storefront/pkg/logger"
)

// ServiceName is the health-checked service name advertised next to the overall "" entry
const ServiceName = "storefront.favorites.v1.Favorites"

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// HealthReporter keeps the gRPC health status in sync with the database
type HealthReporter struct {
	health   *health.Server
	ping     Pinger
	interval time.Duration
}

// NewServer builds the favorites gRPC server with health and reflection services registered
func NewServer(metrics *Metrics, ping Pinger, interval time.Duration) (*grpc.Server, *HealthReporter) {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			metrics.UnaryInterceptor,
			LoggingInterceptor,
		),
	)

	reporter := &HealthReporter{
		health:   health.NewServer(),
		ping:     ping,
		interval: interval,
	}
	healthpb.RegisterHealthServer(server, reporter.health)
	reflection.Register(server)

	return server, reporter
}

// Probe pings the database once and publishes the result
func (h *HealthReporter) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.ping(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Database ping failed, reporting NOT_SERVING")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Run probes until ctx is done, then marks the service as shutting down
func (h *HealthReporter) Run(ctx context.Context) {
	h.Probe(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}
