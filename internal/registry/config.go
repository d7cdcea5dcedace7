package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/entity-search/internal/storage/pg"
)

type Kind string

const (
	KindYAML Kind = "yaml"
	KindPG   Kind = "pg"
)

const DefaultPath = "config/entities.yaml"

type Config struct {
	Kind Kind
	Path string
	Pg   *pg.PoolConfig
}

func LoadEnv() (*Config, error) {
	kind := Kind(os.Getenv("REGISTRY_SOURCE"))
	if kind == "" {
		kind = KindYAML
	}

	switch kind {
	case KindYAML:
		path := os.Getenv("REGISTRY_PATH")
		if path == "" {
			path = DefaultPath
		}
		return &Config{Kind: kind, Path: path}, nil
	case KindPG:
		connStr := os.Getenv("PG_CONNECTION_STRING")
		if connStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		return &Config{Kind: kind, Pg: &pg.PoolConfig{ConnStr: connStr}}, nil
	default:
		slog.Error("Invalid REGISTRY_SOURCE environment variable value", "value", kind)
		return nil, fmt.Errorf("invalid REGISTRY_SOURCE value: %s, expected one of %v", kind, []Kind{KindYAML, KindPG})
	}
}

// Open builds the configured source. The returned close func releases any
// connection the source holds.
func Open(ctx context.Context, cfg *Config) (Source, func(), error) {
	switch cfg.Kind {
	case KindYAML:
		return NewYAMLSource(cfg.Path), func() {}, nil
	case KindPG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return NewPgSource(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported registry source: %s", cfg.Kind)
	}
}
