package server

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/storefront"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func RegisterRoutes(e *echo.Echo, hub *storefront.Hub, opts Options, logger *zap.Logger) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//ここから下はクライアントcookie必須（無ければ発行）
	g := e.Group("", middleware.ClientSession(opts.Session))

	handler.NewCartHandler(hub, logger).RegisterRoutes(g)
	handler.NewAuthHandler(hub, logger).RegisterRoutes(g)
	handler.NewCheckoutHandler(hub, logger).RegisterRoutes(g)
	handler.NewProductHandler(hub, logger).RegisterRoutes(g)
	handler.NewEventsHandler(hub, opts.Heartbeat, logger).RegisterRoutes(g)
}
