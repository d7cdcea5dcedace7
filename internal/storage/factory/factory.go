package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/entity-search/internal/storage"
	"github.com/DjordjeVuckovic/entity-search/internal/storage/es"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	pkgserver "github.com/DjordjeVuckovic/entity-search/pkg/server"
)

// NewSearcher creates the Elasticsearch backed storage.EntitySearcher and a
// health checker over the same connection.
func NewSearcher(ctx context.Context, cfg StorageConfig, entities []schema.EntitySpec) (storage.EntitySearcher, pkgserver.HealthChecker, error) {
	if cfg.Es == nil {
		return nil, nil, fmt.Errorf("elasticsearch configuration is required")
	}

	executor, err := es.NewExecutor(*cfg.Es)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create elasticsearch executor: %w", err)
	}

	searcher, err := es.NewSearcherWithBackend(executor, *cfg.Es, cfg.Search, entities)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create searcher: %w", err)
	}

	healthChecker := es.NewHealthChecker(executor)
	if !healthChecker.Healthy(ctx) {
		slog.Warn("Elasticsearch is not reachable yet, continuing", "addresses", cfg.Es.Addresses)
	}

	slog.Info("Entity searcher ready",
		"index", cfg.Es.IndexName,
		"entities", len(entities),
		"pointInTime", cfg.Es.SupportsPointInTime,
	)
	return searcher, healthChecker, nil
}
