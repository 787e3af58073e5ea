package service

import (
	"StreamHub/internal/model"
	"cmp"
	"slices"
	"time"
)

// RankTrending 按分数降序排名，同分按 videoID 升序，rank 从 1 连续编号
func RankTrending(scored []ScoredVideo, partition Partition, computedAt time.Time) []*model.TrendingVideo {
	sorted := slices.Clone(scored)
	slices.SortFunc(sorted, func(a, b ScoredVideo) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.VideoID, b.VideoID)
	})

	entries := make([]*model.TrendingVideo, len(sorted))
	for i, s := range sorted {
		entries[i] = &model.TrendingVideo{
			VideoID:    s.VideoID,
			Score:      s.Score,
			Rank:       i + 1,
			Period:     partition.Period,
			Category:   partition.Category,
			ComputedAt: computedAt,
		}
	}
	return entries
}
