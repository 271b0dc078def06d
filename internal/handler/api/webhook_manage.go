package api

import (
	"errors"

	"TapeFeed/internal/domain/models"
	"TapeFeed/internal/service/helius"
	"TapeFeed/internal/usecase"
	xhttp "TapeFeed/pkg/http"
	xlogger "TapeFeed/pkg/logger"
	"TapeFeed/pkg/util"

	"github.com/labstack/echo/v4"
)

// WebhookManageHandler proxies webhook lifecycle operations against the
// upstream provider's registry.
type WebhookManageHandler struct {
	logger   *xlogger.Logger
	webhooks *usecase.WebhooksUsecase
}

func NewWebhookManageHandler(logger *xlogger.Logger, webhooks *usecase.WebhooksUsecase) *WebhookManageHandler {
	return &WebhookManageHandler{logger: logger, webhooks: webhooks}
}

func (h *WebhookManageHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/webhooks/manage", h.Register)
	e.DELETE("/api/webhooks/manage", h.Delete)
	e.GET("/api/webhooks/manage", h.Status)
}

// Register creates (or replaces) the webhook for a token and starts
// tracking it.
func (h *WebhookManageHandler) Register(c echo.Context) error {
	req := &models.RegisterWebhookRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !util.IsSolanaAddress(req.TokenAddress) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("tokenAddress is not a valid address"))
	}
	if req.PoolAddress != "" && !util.IsSolanaAddress(req.PoolAddress) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("poolAddress is not a valid address"))
	}

	webhookID, err := h.webhooks.CreateOrReplace(c.Request().Context(), req.TokenAddress, req.PoolAddress, req.WebhookURL)
	if err != nil {
		if errors.Is(err, helius.ErrMissingAPIKey) {
			return xhttp.AppErrorResponse(c, xhttp.InternalError("indexer api key not configured").WithError(err))
		}
		h.logger.Error("webhook registration error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to create webhook").WithError(err))
	}

	return xhttp.SuccessResponse(c, models.RegisterWebhookResponse{
		Success:      true,
		WebhookID:    webhookID,
		TokenAddress: req.TokenAddress,
		WebhookURL:   req.WebhookURL,
	})
}

// Delete removes the active webhook.
func (h *WebhookManageHandler) Delete(c echo.Context) error {
	deleted, err := h.webhooks.Delete(c.Request().Context())
	if err != nil {
		h.logger.Error("webhook delete error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to delete webhook").WithError(err))
	}

	resp := models.DeleteWebhookResponse{Success: true, DeletedWebhookID: deleted}
	if deleted == "" {
		resp.Message = "no active webhook"
	}
	return xhttp.SuccessResponse(c, resp)
}

// Status reports the active webhook and everything registered upstream.
func (h *WebhookManageHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.webhooks.Status(c.Request().Context()))
}
