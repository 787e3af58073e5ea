package kafka

import (
	"StreamHub/internal/model"
	"StreamHub/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// CacheInvalidator 删除榜单缓存
type CacheInvalidator interface {
	DeleteKey(ctx context.Context, key string) error
}

// 影响榜单展示的列，播放量、点赞数变化等下一轮重算
var displayColumns = []string{"status", "visibility", "title", "thumbnail_url", "category"}

var trendingPeriods = []string{
	consts.TrendingPeriodDaily,
	consts.TrendingPeriodWeekly,
	consts.TrendingPeriodMonthly,
}

// VideoChangeHandler 消费 videos 表 binlog，视频下架或信息变化时清理相关分区的榜单缓存
type VideoChangeHandler struct {
	cache CacheInvalidator
}

func NewVideoChangeHandler(cache CacheInvalidator) *VideoChangeHandler {
	return &VideoChangeHandler{cache: cache}
}

func (s *VideoChangeHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("video change consumer setup")
	return nil
}

func (s *VideoChangeHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("video change consumer cleanup")
	return nil
}

func (s *VideoChangeHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.logic)
}

func (s *VideoChangeHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.Video{}.TableName())
	if err != nil {
		// 非目标表静默跳过，解析失败记录后跳过
		if err != ErrIgnoredMessage {
			log.WarnContext(ctx, "skip video change message", "offset", msg.Offset, "err", err)
		}
		return ErrIgnoredMessage
	}

	categories := affectedCategories(canalMsg)
	if len(categories) == 0 {
		return nil
	}

	for _, period := range trendingPeriods {
		for _, category := range categories {
			key := consts.TrendingListKey + period + ":" + category
			if err = s.cache.DeleteKey(ctx, key); err != nil {
				return err
			}
		}
	}
	log.InfoContext(ctx, "trending cache invalidated by video change",
		"type", canalMsg.Type, "categories", categories)
	return nil
}

// affectedCategories 返回需要清理缓存的分类，包含代表全部分类的空串
func affectedCategories(msg *CanalMessage) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(category string) {
		if _, ok := seen[category]; ok {
			return
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}

	for i, row := range msg.Data {
		switch msg.Type {
		case CanalDelete:
			add(columnString(row, "category"))
		case CanalUpdate:
			old := msg.OldRow(i)
			if !displayChanged(old) {
				continue
			}
			add(columnString(row, "category"))
			if _, ok := old["category"]; ok {
				add(columnString(old, "category"))
			}
		}
	}

	if len(out) > 0 {
		add("")
	}
	return out
}

func displayChanged(old map[string]interface{}) bool {
	for _, column := range displayColumns {
		if _, ok := old[column]; ok {
			return true
		}
	}
	return false
}
