package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/entity-search/internal/bench/report"
	"github.com/DjordjeVuckovic/entity-search/internal/bench/runner"
	"github.com/DjordjeVuckovic/entity-search/internal/bench/suite"
	"github.com/DjordjeVuckovic/entity-search/internal/registry"
	"github.com/DjordjeVuckovic/entity-search/internal/storage/factory"
	"github.com/DjordjeVuckovic/entity-search/pkg/config/env"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Invalid flags", "error", err)
		os.Exit(2)
	}
	ctx := context.Background()

	kValues, err := cfg.parseKValues()
	if err != nil {
		slog.Error("Invalid k values", "error", err)
		os.Exit(1)
	}

	s, err := suite.LoadFromFile(cfg.SuitePath)
	if err != nil {
		slog.Error("Failed to load suite", "path", cfg.SuitePath, "error", err)
		os.Exit(1)
	}

	if err := env.LoadDotEnv(os.Getenv("ENV"), cfg.EnvPath); err != nil {
		slog.Info("Continuing with existing environment variables", "error", err)
	}
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}
	registryCfg, err := registry.LoadEnv()
	if err != nil {
		slog.Error("Failed to load registry configuration", "error", err)
		os.Exit(1)
	}

	source, closeSource, err := registry.Open(ctx, registryCfg)
	if err != nil {
		slog.Error("Failed to open entity registry", "error", err)
		os.Exit(1)
	}
	entities, err := source.Load(ctx)
	closeSource()
	if err != nil {
		slog.Error("Failed to load entity registry", "error", err)
		os.Exit(1)
	}

	searcher, _, err := factory.NewSearcher(ctx, *storageCfg, entities)
	if err != nil {
		slog.Error("Failed to create entity searcher", "error", err)
		os.Exit(1)
	}

	result, err := runner.New(searcher, runner.Config{
		KValues:            kValues,
		RelevanceThreshold: runner.DefaultRelevanceThreshold,
		WarmupRuns:         cfg.Warmup,
		Runs:               cfg.Runs,
	}).Run(ctx, s)
	if err != nil {
		slog.Error("Benchmark failed", "error", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			slog.Error("Failed to create output file", "path", cfg.Output, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if cfg.Format == "json" {
		err = report.WriteJSON(result, out)
	} else {
		err = report.WriteTable(result, out)
	}
	if err != nil {
		slog.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	slog.Info("Benchmark complete", "queries", result.Aggregate.QueryCount, "failed", result.Aggregate.ErrorCount)
}
