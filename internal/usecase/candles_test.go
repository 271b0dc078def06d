package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/internal/service/cache"
	"TapeFeed/internal/service/hub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChartSource struct {
	mu    sync.Mutex
	bars  []models.PriceBar
	calls int
}

func (f *fakeChartSource) FetchBars(ctx context.Context, token string, tf drepo.Timeframe, from, to int64) ([]models.PriceBar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.bars, nil
}

func (f *fakeChartSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// passCache always misses, so feed tests see fresh bars every tick.
type passCache struct{}

func (passCache) GetBytes(key string) ([]byte, bool, error) { return nil, false, nil }
func (passCache) SetBytes(key string, value []byte, ttl time.Duration) error { return nil }

func newTestCandles(t *testing.T, source drepo.ChartSource, c cache.BytesCache, builder *CandleBuilder, session *TokenSession, h *hub.Hub) *CandlesUsecase {
	t.Helper()
	return NewCandlesUsecase(
		source,
		c,
		builder,
		h,
		nil,
		session,
		drepo.TF30s,
		newFakeMetrics(),
		testLogger(t),
	)
}

func TestGetChartCachesResponses(t *testing.T) {
	source := &fakeChartSource{bars: []models.PriceBar{{Time: 1000, Open: 1, High: 1, Low: 1, Close: 1}}}
	u := newTestCandles(t, source, cache.NewTTLCache(), NewCandleBuilder(30*time.Second), NewTokenSession(), hub.New(testLogger(t)))

	ctx := context.Background()
	first, err := u.GetChart(ctx, testMint, drepo.TF30s, 0, 0)
	require.NoError(t, err)
	second, err := u.GetChart(ctx, testMint, drepo.TF30s, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.callCount())

	// A different range misses the cache.
	_, err = u.GetChart(ctx, testMint, drepo.TF30s, 500, 2000)
	require.NoError(t, err)
	assert.Equal(t, 2, source.callCount())
}

func TestInvalidTimeframeFallsBackToDefault(t *testing.T) {
	source := &fakeChartSource{}
	u := NewCandlesUsecase(
		source,
		cache.NewTTLCache(),
		NewCandleBuilder(30*time.Second),
		hub.New(testLogger(t)),
		nil,
		NewTokenSession(),
		drepo.Timeframe("bogus"),
		newFakeMetrics(),
		testLogger(t),
	)
	assert.Equal(t, drepo.DefaultTimeframe(), u.Timeframe())
}

func TestFeedSealsAndBroadcasts(t *testing.T) {
	log := testLogger(t)
	h := hub.New(log)
	builder := NewCandleBuilder(30 * time.Second)
	session := NewTokenSession()
	session.Track(testMint, testPool)

	source := &fakeChartSource{bars: []models.PriceBar{{Time: 1000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}}}
	u := newTestCandles(t, source, passCache{}, builder, session, h)

	var candles []*models.Candle
	h.Subscribe(func(msg models.StreamMessage) {
		if msg.Type == models.StreamTypeCandle {
			candles = append(candles, msg.Candle)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		u.RunFeed(ctx, 5*time.Millisecond)
		close(done)
	}()

	// First tick observes the opening bar; advancing the feed seals it.
	require.Eventually(t, func() bool { return builder.Current() != nil }, time.Second, 5*time.Millisecond)
	source.mu.Lock()
	source.bars = []models.PriceBar{{Time: 1030, Open: 1.5, High: 1.6, Low: 1.4, Close: 1.55, Volume: 5}}
	source.mu.Unlock()

	require.Eventually(t, func() bool { return len(u.Sealed()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	require.Len(t, candles, 1)
	assert.Equal(t, int64(1000000), candles[0].StartTime)
	assert.Equal(t, 1.0, candles[0].Open)
}

func TestFeedSkipsWhenUntracked(t *testing.T) {
	source := &fakeChartSource{bars: []models.PriceBar{{Time: 1000, Open: 1, High: 1, Low: 1, Close: 1}}}
	builder := NewCandleBuilder(30 * time.Second)
	u := newTestCandles(t, source, passCache{}, builder, NewTokenSession(), hub.New(testLogger(t)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	u.RunFeed(ctx, 5*time.Millisecond)

	assert.Equal(t, 0, source.callCount())
	assert.Nil(t, builder.Current())
}
