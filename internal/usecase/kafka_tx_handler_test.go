package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTransactionBatchSingleObject(t *testing.T) {
	payload := []byte(`{"signature":"sig1","timestamp":1700000000,"type":"SWAP"}`)
	txs, err := DecodeTransactionBatch(payload)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "sig1", txs[0].Signature)
	assert.Equal(t, int64(1700000000), txs[0].Timestamp)
}

func TestDecodeTransactionBatchArray(t *testing.T) {
	payload := []byte(`  [{"signature":"a"},{"signature":"b"}]`)
	txs, err := DecodeTransactionBatch(payload)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "a", txs[0].Signature)
	assert.Equal(t, "b", txs[1].Signature)
}

func TestDecodeTransactionBatchInvalid(t *testing.T) {
	_, err := DecodeTransactionBatch(nil)
	assert.Error(t, err)

	_, err = DecodeTransactionBatch([]byte("   "))
	assert.Error(t, err)

	_, err = DecodeTransactionBatch([]byte(`{"signature":`))
	assert.Error(t, err)

	_, err = DecodeTransactionBatch([]byte(`[{"signature":"a"}`))
	assert.Error(t, err)
}
