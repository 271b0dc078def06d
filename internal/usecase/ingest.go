package usecase

import (
	"context"
	"time"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/internal/service/hub"
	"TapeFeed/pkg/logger"
)

// IngestUsecase is the fan-in point of the pipeline. Raw transactions from
// the webhook gateway, the Kafka ingest topic, and the pull-path poller all
// pass through the same parser, dedup window, and hub.
type IngestUsecase struct {
	session  *TokenSession
	parser   *SwapParser
	dedup    *DedupWindow
	builder  *CandleBuilder
	hub      *hub.Hub
	firehose drepo.TradePublisher // optional
	metrics  drepo.Metrics
	log      *logger.Logger
}

// NewIngestUsecase creates the ingest pipeline. firehose may be nil when no
// downstream broker is configured.
func NewIngestUsecase(
	session *TokenSession,
	parser *SwapParser,
	dedup *DedupWindow,
	builder *CandleBuilder,
	h *hub.Hub,
	firehose drepo.TradePublisher,
	metrics drepo.Metrics,
	log *logger.Logger,
) *IngestUsecase {
	return &IngestUsecase{
		session:  session,
		parser:   parser,
		dedup:    dedup,
		builder:  builder,
		hub:      h,
		firehose: firehose,
		metrics:  metrics,
		log:      log,
	}
}

// ProcessBatch runs a batch of raw transactions through the pipeline and
// returns how many yielded a published trade. Records are independent: a
// malformed record never aborts the rest of the batch.
func (u *IngestUsecase) ProcessBatch(ctx context.Context, txs []models.EnhancedTransaction) (processed, total int) {
	total = len(txs)
	token, pool := u.session.Snapshot()
	if token == "" {
		u.metrics.RecordTradeDropped("untracked")
		return 0, total
	}

	for i := range txs {
		trade := u.parser.Parse(&txs[i], token, pool)
		if trade == nil {
			u.metrics.RecordTradeDropped("unparsed")
			continue
		}
		if !u.dedup.Admit(trade.Signature, trade.Timestamp) {
			u.metrics.RecordTradeDropped("duplicate")
			continue
		}

		strategy := u.parser.StrategyName(&txs[i], token, pool)
		u.metrics.RecordTradeParsed(strategy, string(trade.Side))

		u.hub.Publish(trade)
		u.builder.AddTrade(*trade)
		u.metrics.RecordTradePublished()
		processed++

		if u.firehose != nil {
			if err := u.firehose.PublishTrade(ctx, trade); err != nil {
				u.metrics.RecordError("firehose_publish")
				u.log.Warn("firehose publish failed",
					logger.String("signature", trade.Signature),
					logger.Error(err),
				)
			}
		}

		u.log.Info("trade published",
			logger.String("side", string(trade.Side)),
			logger.String("wallet", trade.Wallet),
			logger.Any("sol_amount", trade.SolAmount),
			logger.String("signature", trade.Signature),
		)
	}
	return processed, total
}

// TrackToken switches the tracked token. The dedup window floor is set to
// now minus the lookback buffer, the current candle is discarded, and the
// replay buffer is cleared.
func (u *IngestUsecase) TrackToken(token, pool string) {
	u.session.Track(token, pool)
	u.dedup.Track(time.Now())
	u.builder.Reset()
	u.hub.Clear()
	u.log.Info("tracking token",
		logger.String("token", token),
		logger.String("pool", pool),
	)
}

// Untrack clears the tracked token and resets pipeline state.
func (u *IngestUsecase) Untrack() {
	u.session.Clear()
	u.dedup.Reset()
	u.builder.Reset()
	u.hub.Clear()
	u.log.Info("tracking cleared")
}

// IngestStatus is the diagnostic payload of the gateway's read endpoint.
type IngestStatus struct {
	TrackedToken string `json:"trackedToken"`
	Listeners    int    `json:"listeners"`
	RecentTrades int    `json:"recentTrades"`
	SeenCount    int    `json:"seenCount"`
}

// Status reports tracked-token and subscriber diagnostics.
func (u *IngestUsecase) Status() IngestStatus {
	return IngestStatus{
		TrackedToken: u.session.Token(),
		Listeners:    u.hub.ListenerCount(),
		RecentTrades: len(u.hub.Recent()),
		SeenCount:    u.dedup.Size(),
	}
}
