package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/internal/service/hub"
	xhttp "TapeFeed/pkg/http"
	xlogger "TapeFeed/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	// heartbeatInterval keeps intermediaries from reaping idle streams.
	heartbeatInterval = 30 * time.Second

	// subscriberBuffer absorbs publish bursts per connection. A full
	// buffer drops the message for that subscriber instead of blocking
	// the publisher.
	subscriberBuffer = 64
)

// StreamHandler serves the live trade stream over SSE.
type StreamHandler struct {
	logger  *xlogger.Logger
	hub     *hub.Hub
	metrics drepo.Metrics
}

func NewStreamHandler(logger *xlogger.Logger, h *hub.Hub, metrics drepo.Metrics) *StreamHandler {
	return &StreamHandler{logger: logger, hub: h, metrics: metrics}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/trades/stream", h.Stream)
}

// Stream sends, in order: a connection acknowledgement, the buffered
// recent trades, then live trades and sealed candles interleaved with
// heartbeats, until the client disconnects.
func (h *StreamHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache, no-transform")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	msgCh := make(chan models.StreamMessage, subscriberBuffer)
	unsubscribe := h.hub.Subscribe(func(msg models.StreamMessage) {
		select {
		case msgCh <- msg:
		default:
			// slow client, drop rather than stall the publisher
		}
	})
	defer func() {
		unsubscribe()
		h.metrics.SetSubscriberCount(h.hub.ListenerCount())
	}()
	h.metrics.SetSubscriberCount(h.hub.ListenerCount())

	if err := h.writeEvent(w, models.ConnectedMessage(time.Now().UnixMilli())); err != nil {
		return nil
	}
	if recent := replayTrades(h.hub.Recent(), c.QueryParam("replay")); len(recent) > 0 {
		if err := h.writeEvent(w, models.RecentMessage(recent)); err != nil {
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
		case msg := <-msgCh:
			if err := h.writeEvent(w, msg); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := h.writeEvent(w, models.PingMessage(time.Now().UnixMilli())); err != nil {
				return nil
			}
		}
	}
}

// replayTrades clamps the replay batch to the client's requested depth.
// An absent or invalid parameter replays everything buffered.
func replayTrades(recent []models.Trade, raw string) []models.Trade {
	n := xhttp.ParseIntDefault(raw, len(recent))
	if n < 0 || n > len(recent) {
		n = len(recent)
	}
	return recent[:n]
}

// writeEvent marshals and flushes one SSE frame. A message that fails to
// marshal is omitted, never terminates the stream.
func (h *StreamHandler) writeEvent(w *echo.Response, msg models.StreamMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("stream message marshal failed", xlogger.Error(err))
		return nil
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return err
	}
	w.Flush()
	return nil
}
