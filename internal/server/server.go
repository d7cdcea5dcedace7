package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
	"github.com/DjordjeVuckovic/entity-search/internal/metrics"
	mw "github.com/DjordjeVuckovic/entity-search/internal/middleware"
	pkgserver "github.com/DjordjeVuckovic/entity-search/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
	HealthCheckTimeout      = 2 * time.Second
)

type Server struct {
	Echo *echo.Echo

	cfg           *Config
	healthChecker pkgserver.HealthChecker
	ctx           context.Context
	stop          context.CancelFunc
}

// New creates a server whose context is cancelled on SIGINT or SIGTERM.
func New(cfg *Config, healthChecker pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.DisableHTTP2 = !cfg.UseHttp2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &Server{
		Echo:          e,
		cfg:           cfg,
		healthChecker: healthChecker,
		ctx:           ctx,
		stop:          stop,
	}
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(mw.RequestID())
	s.Echo.Use(mw.Logger(mw.WithSkipper(isProbe)))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(metrics.Middleware())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

func (s *Server) SetupHealthChecks(path string) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), HealthCheckTimeout)
		defer cancel()

		if s.healthChecker != nil && !s.healthChecker.Healthy(ctx) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

func (s *Server) SetupMetrics(path string) *Server {
	s.Echo.GET(path, echo.WrapHandler(promhttp.Handler()))
	return s
}

func (s *Server) SetupOpenApi(path string) *Server {
	s.Echo.GET(path, echoSwagger.WrapHandler)
	return s
}

// Context is cancelled once a shutdown signal arrives.
func (s *Server) Context() context.Context {
	return s.ctx
}

func (s *Server) ShutdownSignal() <-chan struct{} {
	return s.ctx.Done()
}

// Start serves until a shutdown signal arrives or the listener fails,
// then drains in-flight requests.
func (s *Server) Start() error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
	}

	slog.Info("Shutting down server", "timeout", GracefulShutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	return s.Echo.Shutdown(ctx)
}

func isProbe(c echo.Context) bool {
	switch c.Path() {
	case "/health", "/metrics":
		return true
	default:
		return false
	}
}
