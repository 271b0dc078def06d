package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "TapeFeed/internal/middleware"
	"TapeFeed/internal/service/helius"
	"TapeFeed/internal/service/tracker"
	"TapeFeed/internal/usecase"
	pkgch "TapeFeed/pkg/clickhouse"
	"TapeFeed/pkg/config"
	xhttp "TapeFeed/pkg/http"
	pkgkafka "TapeFeed/pkg/kafka"
	applogger "TapeFeed/pkg/logger"
)

const (
	defaultChartPollInterval = 2 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

// App encapsulates the entire application lifecycle: the candle feed loop,
// the pull-path poller, the Kafka consumer, and the HTTP server.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	ingest     *usecase.IngestUsecase
	candles    *usecase.CandlesUsecase
	poller     *usecase.Poller
	pipeline   *mid.IngestPipeline
	consumer   *pkgkafka.Consumer
	txHandler  *usecase.RawTxHandler
	chClient   *pkgch.Client
	helius     *helius.Client
	tracker    *tracker.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
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
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		ingest:    ingest,
		candles:   candles,
		poller:    poller,
		pipeline:  pipeline,
		consumer:  consumer,
		txHandler: txHandler,
		chClient:  chClient,
		helius:    heliusClient,
		tracker:   trackerClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional initial tracking target from config; otherwise tracking
	// starts when a webhook is registered.
	if token := a.cfg.Session.Token; token != "" {
		a.ingest.TrackToken(token, a.cfg.Session.Pool)
	}

	if a.pipeline != nil {
		a.pipeline.Start(ctx)
		a.log.Info("firehose pipeline started", applogger.String("topic", a.cfg.Kafka.FirehoseTopic))
	}

	if a.tracker.Configured() {
		interval := a.cfg.Session.ChartPollInterval
		if interval <= 0 {
			interval = defaultChartPollInterval
		}
		go a.candles.RunFeed(ctx, interval)
		a.log.Info("candle feed started",
			applogger.String("timeframe", string(a.candles.Timeframe())),
			applogger.String("interval", interval.String()),
		)
	} else {
		a.log.Warn("candle feed disabled: chart api key not configured")
	}

	if a.helius.Configured() {
		go a.poller.Run(ctx)
		a.log.Info("trade poller started")
	} else {
		a.log.Warn("trade poller disabled: indexer api key not configured")
	}

	if a.consumer != nil && a.txHandler != nil {
		a.consumer.RegisterHandler(a.txHandler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.txHandler.Topic()))
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn("http shutdown error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Closing the pipeline also closes the underlying producer.
	if a.pipeline != nil {
		if err := a.pipeline.Close(); err != nil {
			a.log.Warn("firehose close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
