// Package main Entity Search API
// @title Entity Search API
// @version 1.0
// @description Faceted search, filtering and scrolling over catalog entities indexed in Elasticsearch
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/DjordjeVuckovic/entity-search/docs"
	"github.com/DjordjeVuckovic/entity-search/internal/registry"
	"github.com/DjordjeVuckovic/entity-search/internal/router"
	"github.com/DjordjeVuckovic/entity-search/internal/server"
	"github.com/DjordjeVuckovic/entity-search/internal/storage/factory"
	"github.com/labstack/echo/v4"
)

const startupTimeout = 30 * time.Second

func main() {
	appSettings := NewAppConfig()
	appSettings.LoadDotEnv()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Loaded before the server exists so a bad registry never binds the port.
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	source, closeSource, err := registry.Open(ctx, &cfg.RegistryConfig)
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

	searcher, healthChecker, err := factory.NewSearcher(ctx, cfg.StorageConfig, entities)
	if err != nil {
		slog.Error("Failed to create entity searcher", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Entity Search API is running")
	})

	searchRouter := router.NewSearchRouter(s.Echo, searcher)
	searchRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
