package dto

import (
	"strings"
	"time"
)

// TrendingQueryDTO 榜单查询参数
type TrendingQueryDTO struct {
	Period   string `form:"period" validate:"omitempty,oneof=daily weekly monthly"`
	Category string `form:"category" validate:"omitempty,max=64"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=500"`
}

// TrendingRecomputeReqDTO 手动触发榜单重算
type TrendingRecomputeReqDTO struct {
	Period   string `json:"period" validate:"required,oneof=daily weekly monthly"`
	Category string `json:"category" validate:"omitempty,max=64"`
}

// Normalize 周期忽略大小写与首尾空白，需在校验前调用
func (q *TrendingQueryDTO) Normalize() {
	q.Period = strings.ToLower(strings.TrimSpace(q.Period))
	q.Category = strings.TrimSpace(q.Category)
}

func (r *TrendingRecomputeReqDTO) Normalize() {
	r.Period = strings.ToLower(strings.TrimSpace(r.Period))
	r.Category = strings.TrimSpace(r.Category)
}

// TrendingVideoDTO 榜单条目
type TrendingVideoDTO struct {
	Rank         int     `json:"rank"`
	VideoID      string  `json:"video_id"`
	Score        float64 `json:"score"`
	Title        string  `json:"title"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Category     string  `json:"category"`
	Views        int64   `json:"views"`
	Likes        int64   `json:"likes"`
}

// TrendingListDTO 榜单返回包装
type TrendingListDTO struct {
	Period     string              `json:"period"`
	Category   string              `json:"category,omitempty"`
	RunID      string              `json:"run_id,omitempty"`
	ComputedAt *time.Time          `json:"computed_at,omitempty"`
	Videos     []*TrendingVideoDTO `json:"videos"`
}

// TrendingRecomputeDTO 重算结果摘要
type TrendingRecomputeDTO struct {
	RunID      string    `json:"run_id"`
	Period     string    `json:"period"`
	Category   string    `json:"category,omitempty"`
	Fetched    int       `json:"fetched"`
	Skipped    int       `json:"skipped"`
	Coerced    int       `json:"coerced"`
	Written    int       `json:"written"`
	DurationMs int64     `json:"duration_ms"`
	ComputedAt time.Time `json:"computed_at"`
}
