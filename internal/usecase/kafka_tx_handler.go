package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"TapeFeed/internal/domain/models"
	"TapeFeed/pkg/logger"
)

// DecodeTransactionBatch decodes a payload that is either a single raw
// transaction object or an array of them.
func DecodeTransactionBatch(data []byte) ([]models.EnhancedTransaction, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	if trimmed[0] == '[' {
		var txs []models.EnhancedTransaction
		if err := json.Unmarshal(trimmed, &txs); err != nil {
			return nil, fmt.Errorf("decode transaction batch: %w", err)
		}
		return txs, nil
	}

	var tx models.EnhancedTransaction
	if err := json.Unmarshal(trimmed, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return []models.EnhancedTransaction{tx}, nil
}

// RawTxHandler consumes raw transaction batches from the Kafka ingest
// topic and feeds them through the pipeline. Per-record parse failures are
// expected and never surface as handler errors; only undecodable payloads
// do (and end up in the DLQ after retries).
type RawTxHandler struct {
	topic  string
	ingest *IngestUsecase
	log    *logger.Logger
}

// NewRawTxHandler creates a Kafka handler for the given topic.
func NewRawTxHandler(topic string, ingest *IngestUsecase, log *logger.Logger) *RawTxHandler {
	return &RawTxHandler{topic: topic, ingest: ingest, log: log}
}

// Topic returns the subscribed topic.
func (h *RawTxHandler) Topic() string { return h.topic }

// Handle decodes and ingests one message.
func (h *RawTxHandler) Handle(ctx context.Context, data []byte) error {
	txs, err := DecodeTransactionBatch(data)
	if err != nil {
		return err
	}

	processed, total := h.ingest.ProcessBatch(ctx, txs)
	h.log.Debug("kafka batch ingested",
		logger.Int("processed", processed),
		logger.Int("total", total),
	)
	return nil
}
