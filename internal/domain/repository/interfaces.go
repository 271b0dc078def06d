package repository

import (
	"context"

	"TapeFeed/internal/domain/models"
)

// ChartSource fetches OHLCV bars for a token from the external chart feed.
// from/to are optional unix-second bounds; zero means unbounded.
type ChartSource interface {
	FetchBars(ctx context.Context, token string, tf Timeframe, from, to int64) ([]models.PriceBar, error)
}

// TradeSource fetches recent raw swap transactions for an address.
type TradeSource interface {
	RecentSwaps(ctx context.Context, address string, limit int) ([]models.EnhancedTransaction, error)
}

// TradePublisher forwards accepted trades to the downstream firehose.
type TradePublisher interface {
	PublishTrade(ctx context.Context, trade *models.Trade) error
	Close() error
}

// CandleArchive persists sealed candles for offline analysis.
type CandleArchive interface {
	StoreCandle(ctx context.Context, token string, tf Timeframe, candle *models.Candle) error
	Close() error
}

// Metrics records pipeline metrics.
type Metrics interface {
	RecordTradeParsed(strategy, side string)
	RecordTradePublished()
	RecordTradeDropped(reason string)
	RecordCandleSealed()
	SetSubscriberCount(n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

// WebhookAdmin manages transaction webhooks on the upstream RPC provider.
type WebhookAdmin interface {
	ListWebhooks(ctx context.Context) ([]models.Webhook, error)
	CreateWebhook(ctx context.Context, callbackURL string, addresses []string) (*models.Webhook, error)
	DeleteWebhook(ctx context.Context, webhookID string) error
}
