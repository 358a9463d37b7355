package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/storefront"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Options struct {
	Addr      string
	Session   middleware.ClientSessionConfig
	Heartbeat time.Duration
}

// BFFのHTTPサーバー
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

func New(opts Options, hub *storefront.Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))

	RegisterRoutes(e, hub, opts, logger)

	return &Server{echo: e, addr: opts.Addr, logger: logger}
}

// テストからも使う
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Shutdownされるまでブロックする
func (s *Server) Start() error {
	s.logger.Info("listening", zap.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
