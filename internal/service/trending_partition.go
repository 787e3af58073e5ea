package service

import (
	"StreamHub/internal/pkg/consts"
	"strings"
	"unicode/utf8"
)

const maxCategoryLength = 64

// Partition 榜单分区 (period, category)，Category 为空表示全部分类
type Partition struct {
	Period   string
	Category string
}

func NewPartition(period, category string) (Partition, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	switch period {
	case consts.TrendingPeriodDaily, consts.TrendingPeriodWeekly, consts.TrendingPeriodMonthly:
	default:
		return Partition{}, ErrPeriodInvalid
	}

	category = strings.TrimSpace(category)
	if utf8.RuneCountInString(category) > maxCategoryLength {
		return Partition{}, ErrParamInvalid
	}
	return Partition{Period: period, Category: category}, nil
}

// Key 用于 Redis 锁与缓存
func (p Partition) Key() string {
	return p.Period + ":" + p.Category
}
