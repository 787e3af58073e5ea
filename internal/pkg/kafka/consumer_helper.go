package kafka

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	batchSize     = 32
	batchTimeout  = 1 * time.Second
	retryInterval = 100 * time.Millisecond
	maxRetryDelay = 5 * time.Second
)

// ErrIgnoredMessage 与当前消费者无关的消息，直接提交不重试
var ErrIgnoredMessage = errors.New("ignored message")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重置定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，全部成功后提交最后一条
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	ctx := session.Context()
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			processWithRetry(ctx, m, logic)
		}(msg)
	}
	wg.Wait()

	// 会话结束时不提交，重平衡后由新的消费者重新处理
	if ctx.Err() != nil || len(messages) == 0 {
		return
	}
	session.MarkMessage(messages[len(messages)-1], "")
}

func processWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	delay := retryInterval
	for {
		err := logic(ctx, m)
		if err == nil || errors.Is(err, ErrIgnoredMessage) {
			return
		}

		log.ErrorContext(ctx, "process message error",
			"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
		if !waitRetry(ctx, delay) {
			return
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// waitRetry 等待 delay，ctx 结束时返回 false
func waitRetry(ctx context.Context, delay time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体，非目标表或 DDL 返回 ErrIgnoredMessage
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		// 格式错误的消息重试也无法成功
		return nil, fmt.Errorf("%w: unmarshal canal message: %w", ErrIgnoredMessage, err)
	}

	if canalMsg.IsDDL || canalMsg.Table != tableName || len(canalMsg.Data) == 0 {
		return nil, ErrIgnoredMessage
	}

	return &canalMsg, nil
}
