package hub

import (
	"fmt"
	"sync"

	"TapeFeed/internal/domain/models"
	"TapeFeed/pkg/logger"
)

// maxRecentTrades bounds the replay ring buffer.
const maxRecentTrades = 100

// Handler receives every message broadcast after subscription.
type Handler func(msg models.StreamMessage)

type subscription struct {
	id uint64
	fn Handler
}

// Hub is the in-process broadcaster bridging the ingestion pipeline to live
// stream subscribers. Handlers run synchronously in registration order; a
// panicking handler is isolated and logged, it never blocks the others.
type Hub struct {
	mu     sync.Mutex
	subs   []subscription
	nextID uint64
	recent []models.Trade // newest first
	log    *logger.Logger
}

// New creates an empty hub.
func New(log *logger.Logger) *Hub {
	return &Hub{log: log}
}

// Subscribe registers a handler for subsequent broadcasts and returns its
// unsubscribe function. Unsubscribe is idempotent.
func (h *Hub) Subscribe(fn Handler) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.subs {
		if h.subs[i].id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish records the trade in the replay buffer and broadcasts it.
func (h *Hub) Publish(t *models.Trade) {
	h.mu.Lock()
	h.recent = append([]models.Trade{*t}, h.recent...)
	if len(h.recent) > maxRecentTrades {
		h.recent = h.recent[:maxRecentTrades]
	}
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	h.broadcast(subs, models.TradeMessage(t))
}

// PublishCandle broadcasts a sealed candle. Candles are not replayed.
func (h *Hub) PublishCandle(c *models.Candle) {
	h.mu.Lock()
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	h.broadcast(subs, models.CandleMessage(c))
}

func (h *Hub) broadcast(subs []subscription, msg models.StreamMessage) {
	for _, sub := range subs {
		h.deliver(sub, msg)
	}
}

func (h *Hub) deliver(sub subscription, msg models.StreamMessage) {
	defer func() {
		if r := recover(); r != nil && h.log != nil {
			h.log.Error("subscriber handler panicked",
				logger.Int64("subscriber", int64(sub.id)),
				logger.Error(fmt.Errorf("%v", r)),
			)
		}
	}()
	sub.fn(msg)
}

// Recent returns a snapshot of the replay buffer, newest first.
func (h *Hub) Recent() []models.Trade {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.Trade, len(h.recent))
	copy(out, h.recent)
	return out
}

// ListenerCount returns the number of live subscribers. Diagnostic only.
func (h *Hub) ListenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Clear empties the replay buffer. Called on token switch.
func (h *Hub) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recent = nil
}
