package transport

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthProbe drives a gRPC health server from periodic storage pings.
type HealthProbe struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *zap.Logger
}

func NewHealthProbe(server *health.Server, pinger Pinger, interval time.Duration, logger *zap.Logger) *HealthProbe {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthProbe{server: server, pinger: pinger, interval: interval, logger: logger.Named("health")}
}

// Run checks storage every interval until ctx is done, then marks the service as not serving.
func (p *HealthProbe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Check(ctx)
		select {
		case <-ctx.Done():
			p.server.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

// Check pings storage once and updates the overall serving status.
func (p *HealthProbe) Check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := p.pinger.Ping(pingCtx); err != nil {
		p.logger.Warn("storage ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	p.server.SetServingStatus("", status)
}
