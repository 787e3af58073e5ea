package kafka

import (
	"StreamHub/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// TrendingProducer 将榜单更新事件同步写入 Kafka
type TrendingProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewTrendingProducer(cfg config.KafkaConfig) (*TrendingProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewTrendingProducerWith(producer, cfg.Producer.TrendingTopic), nil
}

func NewTrendingProducerWith(producer sarama.SyncProducer, topic string) *TrendingProducer {
	return &TrendingProducer{producer: producer, topic: topic}
}

func (p *TrendingProducer) PublishTrendingUpdated(ctx context.Context, event *TrendingUpdatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal trending event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Key()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send trending event: %w", err)
	}

	log.InfoContext(ctx, "trending event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"run_id", event.RunID)
	return nil
}

func (p *TrendingProducer) Close() error {
	return p.producer.Close()
}

// NewPublisher 根据配置返回 Kafka 生产者或空实现
func NewPublisher(cfg config.KafkaConfig) (TrendingPublisher, error) {
	if !cfg.Enable {
		log.Info("Kafka disabled, trending events will not be published")
		return NoopPublisher{}, nil
	}
	return NewTrendingProducer(cfg)
}
