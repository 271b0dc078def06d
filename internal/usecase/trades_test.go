package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TapeFeed/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTradeSource struct {
	txs         []models.EnhancedTransaction
	err         error
	lastAddress string
	lastLimit   int
}

func (f *fakeTradeSource) RecentSwaps(ctx context.Context, address string, limit int) ([]models.EnhancedTransaction, error) {
	f.lastAddress = address
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.txs, nil
}

func newTestTrades(t *testing.T, source *fakeTradeSource) (*TradesUsecase, *IngestUsecase) {
	t.Helper()
	ingest, _, _ := newTestIngest(t)
	return NewTradesUsecase(source, NewSwapParser(), ingest, ingest.session, testLogger(t)), ingest
}

func TestTradesFetchParsesAndSkips(t *testing.T) {
	now := time.Now().Unix()
	source := &fakeTradeSource{txs: []models.EnhancedTransaction{
		*swapEventTx("sig1", now),
		{Signature: "junk", Timestamp: now},
		*swapEventTx("sig2", now),
	}}
	u, _ := newTestTrades(t, source)

	trades, err := u.Fetch(context.Background(), testMint, testPool, 50)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "sig1", trades[0].Signature)
	assert.Equal(t, "sig2", trades[1].Signature)
	assert.Equal(t, testPool, source.lastAddress)
	assert.Equal(t, 50, source.lastLimit)
}

func TestTradesFetchAddressFallsBackToToken(t *testing.T) {
	source := &fakeTradeSource{}
	u, _ := newTestTrades(t, source)

	_, err := u.Fetch(context.Background(), testMint, "", 10)
	require.NoError(t, err)
	assert.Equal(t, testMint, source.lastAddress)
}

func TestTradesFetchClampsLimit(t *testing.T) {
	source := &fakeTradeSource{}
	u, _ := newTestTrades(t, source)

	_, err := u.Fetch(context.Background(), testMint, testPool, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxTradeLimit, source.lastLimit)

	_, err = u.Fetch(context.Background(), testMint, testPool, MaxTradeLimit+1)
	require.NoError(t, err)
	assert.Equal(t, MaxTradeLimit, source.lastLimit)
}

func TestTradesFetchPropagatesSourceError(t *testing.T) {
	source := &fakeTradeSource{err: fmt.Errorf("upstream down")}
	u, _ := newTestTrades(t, source)

	_, err := u.Fetch(context.Background(), testMint, testPool, 10)
	assert.Error(t, err)
}

func TestTradesFetchFansIntoPipeline(t *testing.T) {
	now := time.Now().Unix()
	source := &fakeTradeSource{txs: []models.EnhancedTransaction{*swapEventTx("sig1", now)}}
	u, ingest := newTestTrades(t, source)
	ingest.TrackToken(testMint, testPool)

	trades, err := u.Fetch(context.Background(), testMint, testPool, 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Len(t, ingest.hub.Recent(), 1)

	// Repeat query hits the dedup window, nothing new reaches the hub.
	_, err = u.Fetch(context.Background(), testMint, testPool, 10)
	require.NoError(t, err)
	assert.Len(t, ingest.hub.Recent(), 1)
}

func TestTradesFetchSkipsPipelineWhenUntracked(t *testing.T) {
	now := time.Now().Unix()
	source := &fakeTradeSource{txs: []models.EnhancedTransaction{*swapEventTx("sig1", now)}}
	u, ingest := newTestTrades(t, source)

	trades, err := u.Fetch(context.Background(), testMint, testPool, 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Empty(t, ingest.hub.Recent())
}

func TestTradesFetchSkipsPipelineForOtherToken(t *testing.T) {
	now := time.Now().Unix()
	otherMint := "8yLYuh3DX98e8UKYTEKTqB6kCmJEvjJ92n2kiXF1vBta"
	source := &fakeTradeSource{txs: []models.EnhancedTransaction{*swapEventTx("sig1", now)}}
	u, ingest := newTestTrades(t, source)
	ingest.TrackToken(otherMint, "")

	_, err := u.Fetch(context.Background(), testMint, testPool, 10)
	require.NoError(t, err)
	assert.Empty(t, ingest.hub.Recent())
}
