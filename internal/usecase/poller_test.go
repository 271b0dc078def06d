package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"TapeFeed/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pollingSource struct {
	mu    sync.Mutex
	txs   []models.EnhancedTransaction
	calls int
}

func (s *pollingSource) RecentSwaps(ctx context.Context, address string, limit int) ([]models.EnhancedTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.txs, nil
}

func (s *pollingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestPollerIngestsAndDeduplicates(t *testing.T) {
	u, h, _ := newTestIngest(t)
	u.TrackToken(testMint, testPool)

	source := &pollingSource{txs: []models.EnhancedTransaction{
		*swapEventTx("sig1", time.Now().Unix()),
	}}
	p := NewPoller(source, u, u.session, 5*time.Millisecond, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// Several poll cycles run, but the same signature only publishes once.
	require.Eventually(t, func() bool { return source.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Len(t, h.Recent(), 1)
}

func TestPollerIdleWhenUntracked(t *testing.T) {
	u, _, _ := newTestIngest(t)
	source := &pollingSource{}
	p := NewPoller(source, u, u.session, 5*time.Millisecond, testLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	assert.Equal(t, 0, source.callCount())
}
