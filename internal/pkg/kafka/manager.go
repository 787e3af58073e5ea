package kafka

import (
	"StreamHub/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	videoConsumer sarama.ConsumerGroup
	videoHandler  sarama.ConsumerGroupHandler
	videoTopic    string
}

// NewConsumerManager 未开启视频变更消费时返回 nil
func NewConsumerManager(cfg config.KafkaConfig, cache CacheInvalidator) (*ConsumerManager, error) {
	if !cfg.Enable || !cfg.VideoConsumer.Enable {
		return nil, nil
	}

	videoConsumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.VideoConsumer.GroupID, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create video consumer: %w", err)
	}

	return &ConsumerManager{
		videoConsumer: videoConsumer,
		videoHandler:  NewVideoChangeHandler(cache),
		videoTopic:    cfg.VideoConsumer.Topic,
	}, nil
}

// Start 阻塞消费直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.videoConsumer.Errors() {
			log.Error("Error from video consumer", "err", err)
		}
	}()

	log.Info("Video change consumer started", "topic", m.videoTopic)
	// Consume 在每次 rebalance 后返回，连续失败时按指数退避重试
	delay := retryInterval
	for {
		err := m.videoConsumer.Consume(ctx, []string{m.videoTopic}, m.videoHandler)
		if ctx.Err() != nil {
			break
		}
		if err == nil {
			delay = retryInterval
			continue
		}
		log.Error("Error from consumer", "err", err, "retry_in", delay)
		if !waitRetry(ctx, delay) {
			break
		}
		delay = min(delay*2, maxRetryDelay)
	}

	log.Info("Kafka Manager shutting down...")
	if err := m.videoConsumer.Close(); err != nil {
		log.Error("Failed to close video consumer", "err", err)
	}
	return nil
}
