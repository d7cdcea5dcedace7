package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type LoggerOpt func(*middleware.RequestLoggerConfig)

// WithSkipper leaves matching requests out of the access log.
func WithSkipper(skipper middleware.Skipper) LoggerOpt {
	return func(cfg *middleware.RequestLoggerConfig) {
		cfg.Skipper = skipper
	}
}

func Logger(opts ...LoggerOpt) echo.MiddlewareFunc {
	o := defaultOpt()
	for _, opt := range opts {
		opt(&o)
	}

	return middleware.RequestLoggerWithConfig(o)
}

func defaultOpt() middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogLatency:   true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				slog.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("request_id", v.RequestID),
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
				)
			} else {
				slog.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("request_id", v.RequestID),
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	}
}
