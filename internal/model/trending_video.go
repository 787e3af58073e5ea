package model

import (
	"time"
)

// TrendingVideo 热门榜单条目，同一 (period, category) 分区内 rank 从 1 开始连续
type TrendingVideo struct {
	ID       uint64  `gorm:"primaryKey" json:"id"`
	VideoID  string  `gorm:"type:char(36);not null;uniqueIndex:uk_partition_video,priority:3" json:"video_id"`
	Score    float64 `gorm:"not null" json:"score"`
	Rank     int     `gorm:"column:rank_no;not null;uniqueIndex:uk_partition_rank,priority:3" json:"rank"`
	Period   string  `gorm:"type:varchar(16);not null;uniqueIndex:uk_partition_rank,priority:1;uniqueIndex:uk_partition_video,priority:1" json:"period"`
	Category string  `gorm:"type:varchar(64);not null;default:'';uniqueIndex:uk_partition_rank,priority:2;uniqueIndex:uk_partition_video,priority:2" json:"category"` // 空串表示全部分类
	// 写入该行的计算批次，同一次替换内一致
	RunID      string    `gorm:"type:char(36);not null;default:''" json:"run_id"`
	ComputedAt time.Time `gorm:"not null" json:"computed_at"`
}

func (TrendingVideo) TableName() string {
	return "trending_videos"
}
