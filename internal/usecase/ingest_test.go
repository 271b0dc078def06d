package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"TapeFeed/internal/domain/models"
	"TapeFeed/internal/service/hub"
	"TapeFeed/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return log
}

// fakeMetrics counts calls without a registry.
type fakeMetrics struct {
	mu      sync.Mutex
	parsed  int
	dropped map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{dropped: make(map[string]int)}
}

func (m *fakeMetrics) RecordTradeParsed(strategy, side string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parsed++
}

func (m *fakeMetrics) RecordTradeDropped(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[reason]++
}

func (m *fakeMetrics) RecordTradePublished() {}
func (m *fakeMetrics) RecordCandleSealed() {}
func (m *fakeMetrics) SetSubscriberCount(n int) {}
func (m *fakeMetrics) RecordError(kind string) {}
func (m *fakeMetrics) RecordLatency(op string, sec float64) {}

func (m *fakeMetrics) droppedFor(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped[reason]
}

func newTestIngest(t *testing.T) (*IngestUsecase, *hub.Hub, *fakeMetrics) {
	t.Helper()
	log := testLogger(t)
	h := hub.New(log)
	m := newFakeMetrics()
	u := NewIngestUsecase(
		NewTokenSession(),
		NewSwapParser(),
		NewDedupWindow(),
		NewCandleBuilder(30*time.Second),
		h,
		nil,
		m,
		log,
	)
	return u, h, m
}

func TestIngestUntrackedDropsBatch(t *testing.T) {
	u, _, m := newTestIngest(t)

	processed, total := u.ProcessBatch(context.Background(), []models.EnhancedTransaction{
		*swapEventTx("sig1", time.Now().Unix()),
	})
	assert.Equal(t, 0, processed)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, m.droppedFor("untracked"))
}

func TestIngestPublishesParsedTrades(t *testing.T) {
	u, h, m := newTestIngest(t)
	u.TrackToken(testMint, testPool)

	var got []models.StreamMessage
	unsubscribe := h.Subscribe(func(msg models.StreamMessage) {
		got = append(got, msg)
	})
	defer unsubscribe()

	now := time.Now().Unix()
	batch := []models.EnhancedTransaction{
		*swapEventTx("sig1", now),
		*swapEventTx("sig1", now), // duplicate signature
		{Signature: "junk", Timestamp: now},
	}

	processed, total := u.ProcessBatch(context.Background(), batch)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, m.parsed)
	assert.Equal(t, 1, m.droppedFor("duplicate"))
	assert.Equal(t, 1, m.droppedFor("unparsed"))

	require.Len(t, got, 1)
	assert.Equal(t, models.StreamTypeTrade, got[0].Type)
	assert.Equal(t, "sig1", got[0].Trade.Signature)

	recent := h.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "sig1", recent[0].Signature)
}

func TestIngestTrackTokenResetsState(t *testing.T) {
	u, h, _ := newTestIngest(t)
	u.TrackToken(testMint, testPool)

	now := time.Now().Unix()
	u.ProcessBatch(context.Background(), []models.EnhancedTransaction{*swapEventTx("sig1", now)})
	require.Len(t, h.Recent(), 1)

	u.TrackToken("AnotherMint111111111111111111111111111111111", "")
	assert.Empty(t, h.Recent())
	assert.Equal(t, 0, u.Status().SeenCount)
	assert.Equal(t, "AnotherMint111111111111111111111111111111111", u.Status().TrackedToken)
}

func TestIngestUntrack(t *testing.T) {
	u, _, m := newTestIngest(t)
	u.TrackToken(testMint, testPool)
	u.Untrack()

	processed, _ := u.ProcessBatch(context.Background(), []models.EnhancedTransaction{
		*swapEventTx("sig1", time.Now().Unix()),
	})
	assert.Equal(t, 0, processed)
	assert.Equal(t, 1, m.droppedFor("untracked"))
	assert.Equal(t, "", u.Status().TrackedToken)
}
