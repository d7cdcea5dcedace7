package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

type cliConfig struct {
	SuitePath string
	EnvPath   string
	KValues   string
	Warmup    int
	Runs      int
	Format    string
	Output    string
}

func parseFlags(args []string) (cliConfig, error) {
	cfg := cliConfig{}
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)

	fs.StringVar(&cfg.SuitePath, "suite", "configs/bench/relevance_v1.yaml", "Path to the relevance suite YAML")
	fs.StringVar(&cfg.EnvPath, "env", "cmd/search_api/.env", "Dot env file with the search backend settings")
	fs.StringVar(&cfg.KValues, "k", "1,5,10", "K values for metrics, comma-separated")
	fs.IntVar(&cfg.Warmup, "warmup", 0, "Number of warmup runs before measurement")
	fs.IntVar(&cfg.Runs, "runs", 1, "Number of measured iterations per query")
	fs.StringVar(&cfg.Format, "format", "table", "Report format: table or json")
	fs.StringVar(&cfg.Output, "output", "", "Write the report to this file instead of stdout")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	if cfg.Format != "table" && cfg.Format != "json" {
		return cliConfig{}, fmt.Errorf("unknown format %q, expected table or json", cfg.Format)
	}
	return cfg, nil
}

func (c cliConfig) parseKValues() ([]int, error) {
	parts := strings.Split(c.KValues, ",")
	vals := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid k value %q: %w", p, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("k value must be positive, got %d", v)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
