package kafka

import (
	"context"
	"time"
)

// TrendingUpdatedEvent 榜单分区完成替换后发布的事件，key 为 period:category
type TrendingUpdatedEvent struct {
	RunID       string    `json:"run_id"`
	Period      string    `json:"period"`
	Category    string    `json:"category"`
	Count       int       `json:"count"`
	TopVideoIDs []string  `json:"top_video_ids"`
	ComputedAt  time.Time `json:"computed_at"`
}

func (e *TrendingUpdatedEvent) Key() string {
	return e.Period + ":" + e.Category
}

type TrendingPublisher interface {
	PublishTrendingUpdated(ctx context.Context, event *TrendingUpdatedEvent) error
	Close() error
}

// NoopPublisher 未启用 Kafka 时使用
type NoopPublisher struct{}

func (NoopPublisher) PublishTrendingUpdated(context.Context, *TrendingUpdatedEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
