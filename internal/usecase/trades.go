package usecase

import (
	"context"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/pkg/logger"
)

// MaxTradeLimit caps the pull-path result size.
const MaxTradeLimit = 100

// TradesUsecase serves on-demand trade queries from the upstream indexer.
// Queries for the tracked token also feed the ingest pipeline, so pull
// results reach stream subscribers through the same dedup window as the
// push path.
type TradesUsecase struct {
	source  drepo.TradeSource
	parser  *SwapParser
	ingest  *IngestUsecase
	session *TokenSession
	log     *logger.Logger
}

// NewTradesUsecase creates a pull-path trade query usecase.
func NewTradesUsecase(source drepo.TradeSource, parser *SwapParser, ingest *IngestUsecase, session *TokenSession, log *logger.Logger) *TradesUsecase {
	return &TradesUsecase{source: source, parser: parser, ingest: ingest, session: session, log: log}
}

// Fetch retrieves recent swaps for token and normalizes them into trades.
// pool may be empty, in which case the token address is queried directly.
// Records that do not resolve to a trade are skipped, not errors.
func (u *TradesUsecase) Fetch(ctx context.Context, token, pool string, limit int) ([]models.Trade, error) {
	if limit <= 0 || limit > MaxTradeLimit {
		limit = MaxTradeLimit
	}
	address := pool
	if address == "" {
		address = token
	}
	tracked := u.session.Token()
	epoch := u.session.TrackedAt()

	txs, err := u.source.RecentSwaps(ctx, address, limit)
	if err != nil {
		return nil, err
	}

	// Fan into the live pipeline, unless the session changed while the
	// fetch was in flight.
	if tracked != "" && tracked == token && u.session.TrackedAt() == epoch {
		u.ingest.ProcessBatch(ctx, txs)
	}

	trades := make([]models.Trade, 0, len(txs))
	for i := range txs {
		if t := u.parser.Parse(&txs[i], token, pool); t != nil {
			trades = append(trades, *t)
		}
	}

	u.log.Debug("parsed trades",
		logger.String("token", token),
		logger.Int("transactions", len(txs)),
		logger.Int("trades", len(trades)),
	)
	return trades, nil
}
