package es

import (
	"context"
	"log/slog"
)

type HealthChecker struct {
	executor *Executor
}

func NewHealthChecker(executor *Executor) *HealthChecker {
	return &HealthChecker{
		executor: executor,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.executor == nil {
		return false
	}

	if err := hc.executor.Ping(ctx); err != nil {
		slog.Warn("Elasticsearch health check failed", "error", err)
		return false
	}

	return true
}
