package pg

import (
	"context"
	"log/slog"
)

// HealthChecker reports whether the registry database answers pings.
type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{
		pool: pool,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	if err := hc.pool.Ping(ctx); err != nil {
		slog.Warn("Registry database health check failed", "error", err)
		return false
	}

	return true
}
