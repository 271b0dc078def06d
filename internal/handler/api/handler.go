package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler aggregates all API route groups behind one registration point.
type Handler struct {
	chart  *ChartHandler
	trades *TradesHandler
	stream *StreamHandler
	ws     *WSHandler
	ingest *WebhookIngestHandler
	manage *WebhookManageHandler
}

func NewHandler(
	chart *ChartHandler,
	trades *TradesHandler,
	stream *StreamHandler,
	ws *WSHandler,
	ingest *WebhookIngestHandler,
	manage *WebhookManageHandler,
) *Handler {
	return &Handler{
		chart:  chart,
		trades: trades,
		stream: stream,
		ws:     ws,
		ingest: ingest,
		manage: manage,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	h.chart.RegisterRoutes(e)
	h.trades.RegisterRoutes(e)
	h.stream.RegisterRoutes(e)
	h.ws.RegisterRoutes(e)
	h.ingest.RegisterRoutes(e)
	h.manage.RegisterRoutes(e)

	e.GET("/healthz", h.health)
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
