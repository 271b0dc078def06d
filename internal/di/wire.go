//go:build wireinject
// +build wireinject

package di

import (
	"TapeFeed/pkg/config"
	"TapeFeed/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function (wire_gen.go).
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideTimeframe,

		// Pipeline state
		ProvideTokenSession,
		ProvideSwapParser,
		ProvideDedupWindow,
		ProvideCandleBuilder,
		ProvideHub,

		// External clients
		ProvideHeliusClient,
		ProvideTrackerClient,
		ProvideTradeSource,
		ProvideWebhookAdmin,
		ProvideChartSource,
		ProvideCache,

		// Infrastructure
		ProvideKafkaProducer,
		ProvideIngestPipeline,
		ProvideFirehose,
		ProvideKafkaConsumer,
		ProvideClickHouseClient,
		ProvideCandleArchive,

		// Use cases
		ProvideIngestUsecase,
		ProvideTradesUsecase,
		ProvideCandlesUsecase,
		ProvidePoller,
		ProvideWebhooksUsecase,
		ProvideRawTxHandler,

		// Delivery
		ProvideHTTPHandler,
		ProvideApp,
	)
	return nil, nil
}
