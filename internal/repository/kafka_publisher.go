package repository

import (
	"context"

	"TapeFeed/internal/domain/models"
	"TapeFeed/internal/domain/repository"
	pkgkafka "TapeFeed/pkg/kafka"
)

// KafkaTradePublisher implements TradePublisher on a Kafka topic: the trade
// firehose for downstream consumers. Keyed by wallet so per-trader ordering
// survives partitioning.
type KafkaTradePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTradePublisher creates a firehose publisher.
func NewKafkaTradePublisher(producer *pkgkafka.Producer, topic string) repository.TradePublisher {
	return &KafkaTradePublisher{producer: producer, topic: topic}
}

func (p *KafkaTradePublisher) PublishTrade(ctx context.Context, trade *models.Trade) error {
	return p.producer.Publish(ctx, p.topic, []byte(trade.Wallet), trade)
}

func (p *KafkaTradePublisher) Close() error {
	return p.producer.Close()
}
