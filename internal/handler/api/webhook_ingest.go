package api

import (
	"io"

	"TapeFeed/internal/domain/models"
	"TapeFeed/internal/usecase"
	xhttp "TapeFeed/pkg/http"
	xlogger "TapeFeed/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WebhookIngestHandler is the push-based entry point: it accepts raw
// transaction batches from the upstream indexer and feeds them through the
// pipeline.
type WebhookIngestHandler struct {
	logger *xlogger.Logger
	ingest *usecase.IngestUsecase
}

func NewWebhookIngestHandler(logger *xlogger.Logger, ingest *usecase.IngestUsecase) *WebhookIngestHandler {
	return &WebhookIngestHandler{logger: logger, ingest: ingest}
}

func (h *WebhookIngestHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/webhooks/ingest", h.Ingest)
	e.GET("/api/webhooks/ingest", h.Status)
}

// Ingest accepts a single transaction object or an array of them. One
// malformed record never aborts the rest of the batch; only an undecodable
// payload is a client error.
func (h *WebhookIngestHandler) Ingest(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("failed to read body").WithError(err))
	}

	txs, err := usecase.DecodeTransactionBatch(body)
	if err != nil {
		h.logger.Warn("webhook payload undecodable", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid webhook payload").WithError(err))
	}

	processed, total := h.ingest.ProcessBatch(c.Request().Context(), txs)
	h.logger.Info("webhook batch processed",
		xlogger.Int("processed", processed),
		xlogger.Int("total", total),
	)

	return xhttp.SuccessResponse(c, models.IngestResponse{
		Success:   true,
		Processed: processed,
		Total:     total,
	})
}

// Status reports tracked-token and subscriber diagnostics.
func (h *WebhookIngestHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.ingest.Status())
}
