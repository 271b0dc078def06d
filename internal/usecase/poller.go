package usecase

import (
	"context"
	"time"

	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/pkg/logger"
)

// pollFetchLimit bounds each pull-path fetch.
const pollFetchLimit = 30

// Poller is the pull half of the fan-in: it periodically fetches recent
// swaps for the tracked token and runs them through the same ingest
// pipeline as the webhook path. The dedup window collapses the overlap.
type Poller struct {
	source   drepo.TradeSource
	ingest   *IngestUsecase
	session  *TokenSession
	interval time.Duration
	log      *logger.Logger
}

// NewPoller creates a pull-path poller.
func NewPoller(source drepo.TradeSource, ingest *IngestUsecase, session *TokenSession, interval time.Duration, log *logger.Logger) *Poller {
	return &Poller{
		source:   source,
		ingest:   ingest,
		session:  session,
		interval: interval,
		log:      log,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	token, pool := p.session.Snapshot()
	if token == "" {
		return
	}
	epoch := p.session.TrackedAt()
	address := pool
	if address == "" {
		address = token
	}

	txs, err := p.source.RecentSwaps(ctx, address, pollFetchLimit)
	if err != nil {
		p.log.Warn("poll fetch failed", logger.Error(err))
		return
	}

	// Discard results fetched under a session that has since changed.
	if p.session.TrackedAt() != epoch {
		return
	}

	processed, total := p.ingest.ProcessBatch(ctx, txs)
	if processed > 0 {
		p.log.Debug("poll ingested trades",
			logger.Int("processed", processed),
			logger.Int("total", total),
		)
	}
}
