package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/event"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const defaultHeartbeat = 25 * time.Second

// /events のSSE。カート・セッションが変わるたびにバッジを送る。
type EventsHandler struct {
	hub       ClientResolver
	heartbeat time.Duration
	logger    *zap.Logger
}

func NewEventsHandler(hub ClientResolver, heartbeat time.Duration, logger *zap.Logger) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventsHandler{hub: hub, heartbeat: heartbeat, logger: orNop(logger)}
}

func (h *EventsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/events", h.stream)
}

func (h *EventsHandler) stream(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	// バッジを先に購読させる（通知はこの順で届く）
	badge := sf.NavBadge()
	badge.Mount(c.Request().Context())
	defer badge.Unmount()

	changed, unsubscribe := sf.Bus.SubscribeChan(event.TopicCart, event.TopicSession)
	defer unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "change", badge.Snapshot()); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case <-changed:
			if err := writeEvent(w, "change", badge.Snapshot()); err != nil {
				return nil
			}
		}
	}
}

func writeEvent(w *echo.Response, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
