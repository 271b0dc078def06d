package usecase

import (
	"fmt"
	"testing"
	"time"

	"TapeFeed/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(ts int64, o, h, l, c, v float64) models.PriceBar {
	return models.PriceBar{Time: ts, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestBuilderFirstBarNeverSeals(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	assert.Nil(t, b.Observe(bar(1000, 1, 2, 0.5, 1.5, 10)))
	require.NotNil(t, b.Current())
	assert.Empty(t, b.Sealed())
}

func TestBuilderSealsOnNewBucket(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	b.Observe(bar(1000, 1, 2, 0.5, 1.5, 10))

	sealed := b.Observe(bar(1030, 1.5, 1.6, 1.4, 1.55, 5))
	require.NotNil(t, sealed)
	assert.Equal(t, int64(1000000), sealed.StartTime)
	assert.Equal(t, int64(1030000), sealed.EndTime)
	assert.Equal(t, 1.0, sealed.Open)
	assert.Equal(t, 1.5, sealed.Close)
	assert.Equal(t, 1, sealed.CandleNumber)
	assert.Equal(t, 10*models.FeeTotalRate, sealed.Fees.Total)
}

func TestBuilderSameBucketUpdatesInPlace(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	b.Observe(bar(1000, 1, 2, 0.5, 1.5, 10))

	assert.Nil(t, b.Observe(bar(1000, 1, 2.5, 0.5, 1.8, 12)))
	cur := b.Current()
	require.NotNil(t, cur)
	assert.Equal(t, 2.5, cur.High)
	assert.Equal(t, 1.8, cur.Close)

	// A stale (older) bar is ignored entirely.
	assert.Nil(t, b.Observe(bar(970, 9, 9, 9, 9, 9)))
	assert.Equal(t, int64(1000), b.Current().Time)
}

func TestBuilderMonotonicStartTimes(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	times := []int64{1000, 1030, 1060, 1090}
	for _, ts := range times {
		b.Observe(bar(ts, 1, 1, 1, 1, 1))
	}

	sealed := b.Sealed()
	require.Len(t, sealed, 3)
	for i := 1; i < len(sealed); i++ {
		assert.Greater(t, sealed[i].StartTime, sealed[i-1].StartTime)
		assert.Equal(t, i+1, sealed[i].CandleNumber)
	}
}

func TestBuilderAttributesPendingTrades(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	b.Observe(bar(1000, 1, 2, 0.5, 1.5, 10))

	// Candle [1000000, 1030000): two inside, one after.
	b.AddTrade(models.Trade{Signature: "a", Timestamp: 1001000, Side: models.SideBuy, SolAmount: 1.0, TokenAmount: 1})
	b.AddTrade(models.Trade{Signature: "b", Timestamp: 1029999, Side: models.SideSell, SolAmount: 0.5, TokenAmount: 1})
	b.AddTrade(models.Trade{Signature: "c", Timestamp: 1030000, Side: models.SideBuy, SolAmount: 2.0, TokenAmount: 1})

	sealed := b.Observe(bar(1030, 1.5, 1.6, 1.4, 1.55, 5))
	require.NotNil(t, sealed)
	assert.Equal(t, 2, sealed.TradeCount)
	assert.Equal(t, 1, sealed.BuyCount)
	assert.Equal(t, 1, sealed.SellCount)
	assert.Equal(t, 1.0, sealed.BuyVolume)
	assert.Equal(t, 0.5, sealed.SellVolume)
	assert.Equal(t, sealed.TradeCount, sealed.BuyCount+sealed.SellCount)

	// Trade "c" stays pending for the next seal.
	assert.Equal(t, 1, b.PendingCount())
	next := b.Observe(bar(1060, 1, 1, 1, 1, 1))
	require.NotNil(t, next)
	require.Len(t, next.Trades, 1)
	assert.Equal(t, "c", next.Trades[0].Signature)
}

func TestBuilderLaggedTradeDrainedEarly(t *testing.T) {
	// A trade stamped before the current bucket still attributes to the
	// next sealed candle rather than being lost.
	b := NewCandleBuilder(30 * time.Second)
	b.Observe(bar(1000, 1, 1, 1, 1, 1))
	b.AddTrade(models.Trade{Signature: "late", Timestamp: 995000, Side: models.SideBuy, SolAmount: 1, TokenAmount: 1})

	sealed := b.Observe(bar(1030, 1, 1, 1, 1, 1))
	require.NotNil(t, sealed)
	require.Len(t, sealed.Trades, 1)
	assert.Equal(t, "late", sealed.Trades[0].Signature)
}

func TestBuilderSealedTradesNeverNil(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	b.Observe(bar(1000, 1, 1, 1, 1, 1))
	sealed := b.Observe(bar(1030, 1, 1, 1, 1, 1))
	require.NotNil(t, sealed)
	assert.NotNil(t, sealed.Trades)
	assert.Empty(t, sealed.Trades)
}

func TestBuilderDegenerateCandleSealsUnprintable(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	b.Observe(bar(1000, 0, 0, 0, 0, 0))
	sealed := b.Observe(bar(1030, 1, 1, 1, 1, 1))
	require.NotNil(t, sealed)
	assert.False(t, sealed.Printable())
	assert.Len(t, b.Sealed(), 1)
}

func TestBuilderPendingQueueBounded(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	for i := 0; i < maxPendingTrades+50; i++ {
		b.AddTrade(models.Trade{Signature: fmt.Sprintf("s%d", i), Timestamp: int64(i)})
	}
	assert.Equal(t, maxPendingTrades, b.PendingCount())
}

func TestBuilderReset(t *testing.T) {
	b := NewCandleBuilder(30 * time.Second)
	b.Observe(bar(1000, 1, 1, 1, 1, 1))
	b.Observe(bar(1030, 1, 1, 1, 1, 1))
	b.AddTrade(models.Trade{Signature: "x", Timestamp: 1})

	b.Reset()
	assert.Nil(t, b.Current())
	assert.Empty(t, b.Sealed())
	assert.Equal(t, 0, b.PendingCount())

	// Numbering restarts after reset.
	b.Observe(bar(2000, 1, 1, 1, 1, 1))
	sealed := b.Observe(bar(2030, 1, 1, 1, 1, 1))
	require.NotNil(t, sealed)
	assert.Equal(t, 1, sealed.CandleNumber)
}
