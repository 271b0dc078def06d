package api

import (
	"errors"
	"strings"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/internal/service/tracker"
	"TapeFeed/internal/usecase"
	xhttp "TapeFeed/pkg/http"
	xlogger "TapeFeed/pkg/logger"
	"TapeFeed/pkg/util"

	"github.com/labstack/echo/v4"
)

// ChartHandler serves OHLCV candle queries.
type ChartHandler struct {
	logger  *xlogger.Logger
	candles *usecase.CandlesUsecase
}

func NewChartHandler(logger *xlogger.Logger, candles *usecase.CandlesUsecase) *ChartHandler {
	return &ChartHandler{logger: logger, candles: candles}
}

func (h *ChartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/chart/:token", h.Chart)
}

func (h *ChartHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tf := drepo.Timeframe(req.Type)
	if !drepo.IsValidTimeframe(tf) {
		appErr := xhttp.BadRequestErrorf("invalid timeframe, valid options: %s",
			strings.Join(drepo.ValidTimeframes(), ", ")).
			WithParam("options", drepo.ValidTimeframes())
		return xhttp.AppErrorResponse(c, appErr)
	}

	fromT, okFrom := xhttp.ParseTime(req.TimeFrom)
	toT, okTo := xhttp.ParseTime(req.TimeTo)
	if okFrom && okTo {
		fromT, toT = util.AlignRange(fromT, toT, drepo.TimeframeDuration(tf))
	}
	var from, to int64
	if okFrom {
		from = fromT.Unix()
	}
	if okTo {
		to = toT.Unix()
	}

	bars, err := h.candles.GetChart(c.Request().Context(), req.Token, tf, from, to)
	if err != nil {
		if errors.Is(err, tracker.ErrMissingAPIKey) {
			return xhttp.AppErrorResponse(c, xhttp.InternalError("chart api key not configured").WithError(err))
		}
		h.logger.Error("chart fetch error", xlogger.String("token", req.Token), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to fetch chart data").WithError(err))
	}

	return xhttp.SuccessResponse(c, models.ChartResponse{
		Candles:   bars,
		Count:     len(bars),
		Timeframe: req.Type,
	})
}
