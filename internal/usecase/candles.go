package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/internal/service/cache"
	"TapeFeed/internal/service/hub"
	"TapeFeed/pkg/logger"
)

// chartCacheTTL is short enough to catch new bars and long enough to
// absorb concurrent queries into one upstream call.
const chartCacheTTL = 5 * time.Second

// CandlesUsecase serves chart queries and drives the candle feed loop that
// seals buckets off the external OHLC stream.
type CandlesUsecase struct {
	source  drepo.ChartSource
	cache   cache.BytesCache
	builder *CandleBuilder
	hub     *hub.Hub
	archive drepo.CandleArchive // optional
	session *TokenSession
	tf      drepo.Timeframe
	metrics drepo.Metrics
	log     *logger.Logger
}

// NewCandlesUsecase creates the candle usecase. archive may be nil when no
// archive backend is configured.
func NewCandlesUsecase(
	source drepo.ChartSource,
	c cache.BytesCache,
	builder *CandleBuilder,
	h *hub.Hub,
	archive drepo.CandleArchive,
	session *TokenSession,
	tf drepo.Timeframe,
	metrics drepo.Metrics,
	log *logger.Logger,
) *CandlesUsecase {
	if !drepo.IsValidTimeframe(tf) {
		tf = drepo.DefaultTimeframe()
	}
	return &CandlesUsecase{
		source:  source,
		cache:   c,
		builder: builder,
		hub:     h,
		archive: archive,
		session: session,
		tf:      tf,
		metrics: metrics,
		log:     log,
	}
}

// Timeframe returns the session candle timeframe.
func (u *CandlesUsecase) Timeframe() drepo.Timeframe { return u.tf }

// GetChart fetches OHLCV bars for a token, with a short response cache in
// front of the upstream feed.
func (u *CandlesUsecase) GetChart(ctx context.Context, token string, tf drepo.Timeframe, from, to int64) ([]models.PriceBar, error) {
	key := fmt.Sprintf("chart:%s:%s:%d:%d", token, tf, from, to)

	if b, ok, err := u.cache.GetBytes(key); err == nil && ok {
		var bars []models.PriceBar
		if err := json.Unmarshal(b, &bars); err == nil {
			return bars, nil
		}
	}

	bars, err := u.source.FetchBars(ctx, token, tf, from, to)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(bars); err == nil {
		if err := u.cache.SetBytes(key, b, chartCacheTTL); err != nil {
			u.log.Debug("chart cache write failed", logger.Error(err))
		}
	}
	return bars, nil
}

// RunFeed polls the chart feed for the tracked token and feeds the latest
// bar into the candle builder. Sealed candles are broadcast on the hub and
// archived when an archive is configured. Blocks until ctx is cancelled.
func (u *CandlesUsecase) RunFeed(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.tick(ctx)
		}
	}
}

func (u *CandlesUsecase) tick(ctx context.Context) {
	token := u.session.Token()
	if token == "" {
		return
	}

	bars, err := u.GetChart(ctx, token, u.tf, 0, 0)
	if err != nil {
		u.metrics.RecordError("chart_feed")
		u.log.Warn("chart feed fetch failed", logger.Error(err))
		return
	}
	if len(bars) == 0 {
		return
	}

	// The token may have switched while the fetch was in flight. Results
	// for the old token are discarded, never attributed to the new one.
	if u.session.Token() != token {
		return
	}

	sealed := u.builder.Observe(bars[len(bars)-1])
	if sealed == nil {
		return
	}

	u.metrics.RecordCandleSealed()
	u.hub.PublishCandle(sealed)
	u.log.Info("candle sealed",
		logger.Int("number", sealed.CandleNumber),
		logger.Int64("start_time", sealed.StartTime),
		logger.Int("trades", sealed.TradeCount),
		logger.Bool("printable", sealed.Printable()),
	)

	if u.archive != nil {
		if err := u.archive.StoreCandle(ctx, token, u.tf, sealed); err != nil {
			u.metrics.RecordError("candle_archive")
			u.log.Warn("candle archive failed", logger.Error(err))
		}
	}
}

// Sealed returns the session's sealed candle history.
func (u *CandlesUsecase) Sealed() []models.Candle {
	return u.builder.Sealed()
}
