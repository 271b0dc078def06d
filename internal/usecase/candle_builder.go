package usecase

import (
	"sync"
	"time"

	"TapeFeed/internal/domain/models"
)

// maxPendingTrades bounds the builder's trade queue.
const maxPendingTrades = 500

// CandleBuilder maintains one mutable current bucket and an append-only
// history of sealed candles, driven by price bars from the external chart
// feed. Trades accumulate in a pending queue and are attributed to a candle
// when it seals: everything timestamped before the candle's end is drained,
// which tolerates the indexer's lag at the cost of exact window matching.
type CandleBuilder struct {
	mu       sync.Mutex
	duration time.Duration
	pending  []models.Trade
	current  *models.PriceBar
	sealed   []models.Candle
	seq      int
}

// NewCandleBuilder creates a builder for the given candle duration.
func NewCandleBuilder(duration time.Duration) *CandleBuilder {
	return &CandleBuilder{duration: duration}
}

// AddTrade queues a trade for attribution at the next seal.
func (b *CandleBuilder) AddTrade(t models.Trade) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, t)
	if len(b.pending) > maxPendingTrades {
		b.pending = b.pending[len(b.pending)-maxPendingTrades:]
	}
}

// Observe feeds one price bar from the chart feed. When the bar starts a
// new bucket, the previous bucket is sealed and returned; otherwise the
// current bucket is updated in place and nil is returned. The first bar
// never seals anything.
func (b *CandleBuilder) Observe(bar models.PriceBar) *models.Candle {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		cp := bar
		b.current = &cp
		return nil
	}

	if bar.Time <= b.current.Time {
		if bar.Time == b.current.Time {
			cp := bar
			b.current = &cp
		}
		return nil
	}

	sealed := b.sealLocked(*b.current)
	cp := bar
	b.current = &cp
	return sealed
}

// sealLocked turns the finished bar into an immutable candle, attributing
// every pending trade timestamped before the candle's end.
func (b *CandleBuilder) sealLocked(bar models.PriceBar) *models.Candle {
	startTime := bar.Time * 1000
	endTime := startTime + b.duration.Milliseconds()
	trades := b.drainBeforeLocked(endTime)

	b.seq++
	candle := models.Candle{
		ID:           models.NewCandleID(),
		CandleNumber: b.seq,
		StartTime:    startTime,
		EndTime:      endTime,
		Open:         bar.Open,
		High:         bar.High,
		Low:          bar.Low,
		Close:        bar.Close,
		Volume:       bar.Volume,
		Trades:       trades,
		Fees:         models.FeesForVolume(bar.Volume),
	}

	for _, t := range trades {
		candle.TradeCount++
		if t.Side == models.SideBuy {
			candle.BuyCount++
			candle.BuyVolume += t.SolAmount
		} else {
			candle.SellCount++
			candle.SellVolume += t.SolAmount
		}
	}

	b.sealed = append(b.sealed, candle)
	return &candle
}

// drainBeforeLocked removes and returns every pending trade with a
// timestamp strictly before endTime (ms). Drained trades are never
// reconsidered for later candles.
func (b *CandleBuilder) drainBeforeLocked(endTime int64) []models.Trade {
	var drained, kept []models.Trade
	for _, t := range b.pending {
		if t.Timestamp < endTime {
			drained = append(drained, t)
		} else {
			kept = append(kept, t)
		}
	}
	b.pending = kept
	if drained == nil {
		drained = []models.Trade{}
	}
	return drained
}

// Current returns a copy of the bar feeding the current bucket, if any.
func (b *CandleBuilder) Current() *models.PriceBar {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	cp := *b.current
	return &cp
}

// Sealed returns a snapshot of the sealed candle history in seal order.
func (b *CandleBuilder) Sealed() []models.Candle {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Candle, len(b.sealed))
	copy(out, b.sealed)
	return out
}

// PendingCount returns the number of trades awaiting attribution.
func (b *CandleBuilder) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Reset discards the current bucket, the pending queue, and the sealed
// history. Called on token switch; the in-flight bucket is dropped, not
// sealed.
func (b *CandleBuilder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
	b.current = nil
	b.sealed = nil
	b.seq = 0
}

// SetDuration changes the bucket duration and resets builder state.
func (b *CandleBuilder) SetDuration(d time.Duration) {
	b.mu.Lock()
	b.duration = d
	b.mu.Unlock()
	b.Reset()
}

// Duration returns the configured bucket duration.
func (b *CandleBuilder) Duration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duration
}
