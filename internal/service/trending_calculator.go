package service

import (
	"math"
	"time"
)

// ScoreWeights 热度分数权重
type ScoreWeights struct {
	View        float64
	Like        float64
	MinAgeHours float64
}

var DefaultScoreWeights = ScoreWeights{View: 0.6, Like: 10, MinAgeHours: 1}

// VideoStat 参与计算的视频快照，views/likes 非负、CreatedAt 不晚于计算时刻
type VideoStat struct {
	ID        string
	Views     int64
	Likes     int64
	CreatedAt time.Time
}

type ScoredVideo struct {
	VideoID string
	Score   float64
}

// TrendingScore (views*View + likes*Like) / max(ageHours, MinAgeHours)
// 发布不足 MinAgeHours 的视频按 MinAgeHours 计算，避免新视频分数暴涨
func TrendingScore(stat VideoStat, now time.Time, w ScoreWeights) float64 {
	ageHours := now.Sub(stat.CreatedAt).Hours()
	if ageHours < w.MinAgeHours {
		ageHours = w.MinAgeHours
	}

	score := (float64(stat.Views)*w.View + float64(stat.Likes)*w.Like) / ageHours
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return 0
	}
	return score
}

// CalculateScores 按输入顺序为每条记录计算分数，不修改入参
func CalculateScores(stats []VideoStat, now time.Time, w ScoreWeights) []ScoredVideo {
	scored := make([]ScoredVideo, len(stats))
	for i, stat := range stats {
		scored[i] = ScoredVideo{
			VideoID: stat.ID,
			Score:   TrendingScore(stat, now, w),
		}
	}
	return scored
}
