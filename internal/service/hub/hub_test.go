package hub

import (
	"fmt"
	"testing"

	"TapeFeed/internal/domain/models"
	"TapeFeed/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return New(log)
}

func trade(sig string) *models.Trade {
	return &models.Trade{ID: models.NewTradeID(), Signature: sig, Timestamp: 1, Side: models.SideBuy}
}

func TestHubBroadcastOrder(t *testing.T) {
	h := newTestHub(t)

	var first, second []string
	h.Subscribe(func(msg models.StreamMessage) { first = append(first, msg.Trade.Signature) })
	h.Subscribe(func(msg models.StreamMessage) { second = append(second, msg.Trade.Signature) })

	h.Publish(trade("a"))
	h.Publish(trade("b"))

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestHubRecentNewestFirst(t *testing.T) {
	h := newTestHub(t)
	h.Publish(trade("a"))
	h.Publish(trade("b"))
	h.Publish(trade("c"))

	recent := h.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "c", recent[0].Signature)
	assert.Equal(t, "a", recent[2].Signature)
}

func TestHubRecentBounded(t *testing.T) {
	h := newTestHub(t)
	for i := 0; i < maxRecentTrades+25; i++ {
		h.Publish(trade(fmt.Sprintf("sig%d", i)))
	}

	recent := h.Recent()
	require.Len(t, recent, maxRecentTrades)
	assert.Equal(t, fmt.Sprintf("sig%d", maxRecentTrades+24), recent[0].Signature)
}

func TestHubRecentIsSnapshot(t *testing.T) {
	h := newTestHub(t)
	h.Publish(trade("a"))

	snap := h.Recent()
	h.Publish(trade("b"))
	assert.Len(t, snap, 1)
}

func TestHubUnsubscribeIdempotent(t *testing.T) {
	h := newTestHub(t)

	var got int
	unsubscribe := h.Subscribe(func(models.StreamMessage) { got++ })
	other := h.Subscribe(func(models.StreamMessage) {})

	assert.Equal(t, 2, h.ListenerCount())
	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, h.ListenerCount())

	h.Publish(trade("a"))
	assert.Equal(t, 0, got)
	other()
	assert.Equal(t, 0, h.ListenerCount())
}

func TestHubPanickingHandlerIsolated(t *testing.T) {
	h := newTestHub(t)

	var delivered []string
	h.Subscribe(func(models.StreamMessage) { panic("boom") })
	h.Subscribe(func(msg models.StreamMessage) { delivered = append(delivered, msg.Trade.Signature) })

	h.Publish(trade("a"))
	h.Publish(trade("b"))
	assert.Equal(t, []string{"a", "b"}, delivered)
}

func TestHubPublishCandleNotReplayed(t *testing.T) {
	h := newTestHub(t)

	var types []string
	h.Subscribe(func(msg models.StreamMessage) { types = append(types, msg.Type) })

	h.PublishCandle(&models.Candle{ID: models.NewCandleID(), CandleNumber: 1})
	assert.Equal(t, []string{models.StreamTypeCandle}, types)
	assert.Empty(t, h.Recent())
}

func TestHubClear(t *testing.T) {
	h := newTestHub(t)
	h.Subscribe(func(models.StreamMessage) {})
	h.Publish(trade("a"))

	h.Clear()
	assert.Empty(t, h.Recent())
	// Subscribers survive a clear; only the replay buffer resets.
	assert.Equal(t, 1, h.ListenerCount())
}
