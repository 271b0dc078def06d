package di

import (
	"context"
	"fmt"
	"time"

	"TapeFeed/internal/domain/repository"
	"TapeFeed/internal/handler/api"
	mid "TapeFeed/internal/middleware"
	internalrepo "TapeFeed/internal/repository"
	"TapeFeed/internal/service/cache"
	"TapeFeed/internal/service/helius"
	"TapeFeed/internal/service/hub"
	servicemetrics "TapeFeed/internal/service/metrics"
	"TapeFeed/internal/service/tracker"
	"TapeFeed/internal/usecase"
	pkgch "TapeFeed/pkg/clickhouse"
	"TapeFeed/pkg/config"
	xhttp "TapeFeed/pkg/http"
	pkgkafka "TapeFeed/pkg/kafka"
	"TapeFeed/pkg/logger"
	"TapeFeed/pkg/metrics"
	"TapeFeed/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return logger.New(lc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	servicemetrics.Register()
	return metrics.New()
}

// ProvideTimeframe resolves the session candle timeframe.
func ProvideTimeframe(cfg *config.Config) repository.Timeframe {
	return repository.NormalizeTimeframe(cfg.Session.Timeframe)
}

// ProvideTokenSession creates the shared tracked-token session.
func ProvideTokenSession() *usecase.TokenSession {
	return usecase.NewTokenSession()
}

// ProvideSwapParser creates the swap parser with its default strategy chain.
func ProvideSwapParser() *usecase.SwapParser {
	return usecase.NewSwapParser()
}

// ProvideDedupWindow creates the signature dedup window.
func ProvideDedupWindow() *usecase.DedupWindow {
	return usecase.NewDedupWindow()
}

// ProvideCandleBuilder creates the candle builder for the session timeframe.
func ProvideCandleBuilder(tf repository.Timeframe) *usecase.CandleBuilder {
	return usecase.NewCandleBuilder(repository.TimeframeDuration(tf))
}

// ProvideHub creates the trade distribution hub.
func ProvideHub(log *logger.Logger) *hub.Hub {
	return hub.New(log)
}

// ProvideHeliusClient creates the enhanced-transaction API client.
func ProvideHeliusClient(cfg *config.Config, log *logger.Logger) *helius.Client {
	return helius.New(cfg.Helius.APIKey, cfg.Helius.BaseURL, cfg.Helius.Timeout, log)
}

// ProvideTrackerClient creates the OHLC chart feed client.
func ProvideTrackerClient(cfg *config.Config, log *logger.Logger) *tracker.Client {
	return tracker.New(cfg.Tracker.APIKey, cfg.Tracker.BaseURL, cfg.Tracker.Timeout, log)
}

// ProvideTradeSource exposes the Helius client as the raw trade source.
func ProvideTradeSource(c *helius.Client) repository.TradeSource { return c }

// ProvideWebhookAdmin exposes the Helius client as the webhook registry.
func ProvideWebhookAdmin(c *helius.Client) repository.WebhookAdmin { return c }

// ProvideChartSource exposes the tracker client as the chart source.
func ProvideChartSource(c *tracker.Client) repository.ChartSource { return c }

// ProvideCache picks Redis when configured, an in-process TTL cache otherwise.
func ProvideCache(cfg *config.Config) cache.BytesCache {
	if cfg.Redis.Enabled {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return cache.NewTTLCache()
}

// ProvideKafkaProducer creates the firehose producer, or nil when the
// firehose is not configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.FirehoseTopic == "" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideIngestPipeline wraps the firehose publisher in a validating,
// buffering pipeline. Nil when no producer is configured.
func ProvideIngestPipeline(producer *pkgkafka.Producer, cfg *config.Config, m repository.Metrics) *mid.IngestPipeline {
	if producer == nil {
		return nil
	}
	sink := internalrepo.NewKafkaTradePublisher(producer, cfg.Kafka.FirehoseTopic)
	return mid.NewIngestPipeline(sink, m, mid.WithBufferSize(2000))
}

// ProvideFirehose exposes the pipeline as the domain trade publisher.
func ProvideFirehose(p *mid.IngestPipeline) repository.TradePublisher {
	if p == nil {
		return nil
	}
	return p
}

// ProvideKafkaConsumer creates the raw-transaction consumer, or nil when
// the ingest topic is not configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.IngestTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// candle archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideCandleArchive creates the sealed-candle archive over ClickHouse.
// Nil when ClickHouse is disabled.
func ProvideCandleArchive(chClient *pkgch.Client) (repository.CandleArchive, error) {
	if chClient == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	archive, err := internalrepo.NewCHCandleArchive(ctx, chClient)
	if err != nil {
		return nil, fmt.Errorf("candle archive: %w", err)
	}
	return archive, nil
}

// ProvideIngestUsecase creates the fan-in ingest pipeline.
func ProvideIngestUsecase(
	session *usecase.TokenSession,
	parser *usecase.SwapParser,
	dedup *usecase.DedupWindow,
	builder *usecase.CandleBuilder,
	h *hub.Hub,
	firehose repository.TradePublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.IngestUsecase {
	return usecase.NewIngestUsecase(session, parser, dedup, builder, h, firehose, m, log)
}

// ProvideTradesUsecase creates the pull-path trade query use case.
func ProvideTradesUsecase(
	source repository.TradeSource,
	parser *usecase.SwapParser,
	ingest *usecase.IngestUsecase,
	session *usecase.TokenSession,
	log *logger.Logger,
) *usecase.TradesUsecase {
	return usecase.NewTradesUsecase(source, parser, ingest, session, log)
}

// ProvideCandlesUsecase creates the chart query + candle feed use case.
func ProvideCandlesUsecase(
	source repository.ChartSource,
	c cache.BytesCache,
	builder *usecase.CandleBuilder,
	h *hub.Hub,
	archive repository.CandleArchive,
	session *usecase.TokenSession,
	tf repository.Timeframe,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.CandlesUsecase {
	return usecase.NewCandlesUsecase(source, c, builder, h, archive, session, tf, m, log)
}

// ProvidePoller creates the pull-path swap poller.
func ProvidePoller(
	source repository.TradeSource,
	ingest *usecase.IngestUsecase,
	session *usecase.TokenSession,
	cfg *config.Config,
	log *logger.Logger,
) *usecase.Poller {
	interval := cfg.Session.TradePollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return usecase.NewPoller(source, ingest, session, interval, log)
}

// ProvideWebhooksUsecase creates the webhook lifecycle use case.
func ProvideWebhooksUsecase(admin repository.WebhookAdmin, ingest *usecase.IngestUsecase, log *logger.Logger) *usecase.WebhooksUsecase {
	return usecase.NewWebhooksUsecase(admin, ingest, log)
}

// ProvideRawTxHandler registers the handler for the raw-transaction topic.
func ProvideRawTxHandler(cfg *config.Config, ingest *usecase.IngestUsecase, log *logger.Logger) *usecase.RawTxHandler {
	return usecase.NewRawTxHandler(cfg.Kafka.IngestTopic, ingest, log)
}

// ProvideHTTPHandler assembles the Echo route groups.
func ProvideHTTPHandler(
	log *logger.Logger,
	candles *usecase.CandlesUsecase,
	trades *usecase.TradesUsecase,
	ingest *usecase.IngestUsecase,
	webhooks *usecase.WebhooksUsecase,
	h *hub.Hub,
	m repository.Metrics,
) xhttp.Handler {
	return api.NewHandler(
		api.NewChartHandler(log, candles),
		api.NewTradesHandler(log, trades),
		api.NewStreamHandler(log, h, m),
		api.NewWSHandler(log, h, m),
		api.NewWebhookIngestHandler(log, ingest),
		api.NewWebhookManageHandler(log, webhooks),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	ingest *usecase.IngestUsecase,
	candles *usecase.CandlesUsecase,
	poller *usecase.Poller,
	pipeline *mid.IngestPipeline,
	consumer *pkgkafka.Consumer,
	txHandler *usecase.RawTxHandler,
	chClient *pkgch.Client,
	heliusClient *helius.Client,
	trackerClient *tracker.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, log, handler, ingest, candles, poller, pipeline, consumer, txHandler, chClient, heliusClient, trackerClient)
}
