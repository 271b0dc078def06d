package api

import (
	"net/http"
	"time"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/internal/service/hub"
	xlogger "TapeFeed/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const wsWriteTimeout = 10 * time.Second

// WSHandler serves the live trade stream over WebSocket, with the same
// message envelope and ordering as the SSE variant.
type WSHandler struct {
	logger   *xlogger.Logger
	hub      *hub.Hub
	metrics  drepo.Metrics
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *xlogger.Logger, h *hub.Hub, metrics drepo.Metrics) *WSHandler {
	return &WSHandler{
		logger:  logger,
		hub:     h,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/trades/ws", h.Stream)
}

func (h *WSHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	msgCh := make(chan models.StreamMessage, subscriberBuffer)
	unsubscribe := h.hub.Subscribe(func(msg models.StreamMessage) {
		select {
		case msgCh <- msg:
		default:
		}
	})
	defer func() {
		unsubscribe()
		h.metrics.SetSubscriberCount(h.hub.ListenerCount())
	}()
	h.metrics.SetSubscriberCount(h.hub.ListenerCount())

	// Drain client frames so close/ping handling works; nothing inbound
	// is meaningful on this endpoint.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(msg models.StreamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(msg)
	}

	if err := write(models.ConnectedMessage(time.Now().UnixMilli())); err != nil {
		return nil
	}
	if recent := replayTrades(h.hub.Recent(), c.QueryParam("replay")); len(recent) > 0 {
		if err := write(models.RecentMessage(recent)); err != nil {
			return nil
		}
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	ctx := c.Request().Context()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case msg := <-msgCh:
			if err := write(msg); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := write(models.PingMessage(time.Now().UnixMilli())); err != nil {
				return nil
			}
		}
	}
}
