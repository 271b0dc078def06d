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

// TradesHandler serves on-demand normalized trade queries.
type TradesHandler struct {
	logger *xlogger.Logger
	trades *usecase.TradesUsecase
}

func NewTradesHandler(logger *xlogger.Logger, trades *usecase.TradesUsecase) *TradesHandler {
	return &TradesHandler{logger: logger, trades: trades}
}

func (h *TradesHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/trades/:token", h.Trades)
}

func (h *TradesHandler) Trades(c echo.Context) error {
	req := &models.TradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !util.IsSolanaAddress(req.Token) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("token is not a valid address"))
	}

	trades, err := h.trades.Fetch(c.Request().Context(), req.Token, req.Pool, req.Limit)
	if err != nil {
		if errors.Is(err, helius.ErrMissingAPIKey) {
			return xhttp.AppErrorResponse(c, xhttp.InternalError("indexer api key not configured").WithError(err))
		}
		h.logger.Error("trades fetch error", xlogger.String("token", req.Token), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to fetch trade data").WithError(err))
	}

	return xhttp.SuccessResponse(c, models.TradesResponse{
		Trades: trades,
		Count:  len(trades),
		Token:  req.Token,
	})
}
