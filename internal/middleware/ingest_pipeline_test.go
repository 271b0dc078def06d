package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"TapeFeed/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu        sync.Mutex
	published []string
	failUntil int
	calls     int
	closed    bool
}

func (s *fakeSink) PublishTrade(ctx context.Context, t *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failUntil {
		return fmt.Errorf("broker unavailable")
	}
	s.published = append(s.published, t.Signature)
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSink) publishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

type noopMetrics struct{}

func (noopMetrics) RecordTradeParsed(strategy, side string) {}
func (noopMetrics) RecordTradePublished() {}
func (noopMetrics) RecordTradeDropped(reason string) {}
func (noopMetrics) RecordCandleSealed() {}
func (noopMetrics) SetSubscriberCount(n int) {}
func (noopMetrics) RecordError(kind string) {}
func (noopMetrics) RecordLatency(op string, sec float64) {}

func validTestTrade(sig string) *models.Trade {
	return &models.Trade{
		Signature:   sig,
		Timestamp:   1700000000000,
		Side:        models.SideBuy,
		TokenAmount: 1,
		SolAmount:   1,
		Price:       1,
	}
}

func TestPipelinePassThrough(t *testing.T) {
	sink := &fakeSink{}
	p := NewIngestPipeline(sink, noopMetrics{})

	require.NoError(t, p.PublishTrade(context.Background(), validTestTrade("sig1")))
	assert.Equal(t, 1, sink.publishedCount())
}

func TestPipelineRejectsInvalidTrades(t *testing.T) {
	sink := &fakeSink{}
	p := NewIngestPipeline(sink, noopMetrics{})
	ctx := context.Background()

	assert.Error(t, p.PublishTrade(ctx, nil))
	assert.Error(t, p.PublishTrade(ctx, &models.Trade{Timestamp: 1, TokenAmount: 1, SolAmount: 1}))

	bad := validTestTrade("sig1")
	bad.SolAmount = 0
	assert.Error(t, p.PublishTrade(ctx, bad))
	assert.Equal(t, 0, sink.publishedCount())
}

func TestPipelineBuffersAndFlushes(t *testing.T) {
	sink := &fakeSink{failUntil: 1}
	p := NewIngestPipeline(sink, noopMetrics{}, WithBufferSize(10))

	ctx := context.Background()
	err := p.PublishTrade(ctx, validTestTrade("sig1"))
	require.Error(t, err)
	assert.Equal(t, 0, sink.publishedCount())

	p.Start(ctx)
	defer p.Stop()

	require.Eventually(t, func() bool {
		return sink.publishedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPipelineCloseClosesSink(t *testing.T) {
	sink := &fakeSink{}
	p := NewIngestPipeline(sink, noopMetrics{})
	p.Start(context.Background())

	require.NoError(t, p.Close())
	assert.True(t, sink.closed)
}
