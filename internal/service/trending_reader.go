package service

import (
	"StreamHub/internal/api/config"
	"StreamHub/internal/pkg/consts"
	"StreamHub/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

// 数据库与应用之间允许的时钟偏差，偏差内的未来时间按 now 处理
const clockSkewTolerance = time.Minute

// CorpusSnapshot 一次计算使用的视频快照
type CorpusSnapshot struct {
	Stats   []VideoStat
	Fetched int
	Skipped int
	Coerced int
}

type CorpusReader interface {
	// ReadCorpus 读取分区窗口内的已发布公开视频，异常数据跳过或修正后返回
	ReadCorpus(ctx context.Context, partition Partition, now time.Time) (*CorpusSnapshot, error)
}

type corpusReaderImpl struct {
	videoRepo repository.VideoRepo
	windows   map[string]time.Duration
}

func NewCorpusReader(videoRepo repository.VideoRepo, windows config.TrendingWindows) CorpusReader {
	return &corpusReaderImpl{
		videoRepo: videoRepo,
		windows: map[string]time.Duration{
			consts.TrendingPeriodDaily:   time.Duration(windows.Daily) * time.Hour,
			consts.TrendingPeriodWeekly:  time.Duration(windows.Weekly) * time.Hour,
			consts.TrendingPeriodMonthly: time.Duration(windows.Monthly) * time.Hour,
		},
	}
}

func (s *corpusReaderImpl) ReadCorpus(ctx context.Context, partition Partition, now time.Time) (*CorpusSnapshot, error) {
	window, ok := s.windows[partition.Period]
	if !ok {
		return nil, ErrPeriodInvalid
	}
	since := now.Add(-window)

	videos, err := s.videoRepo.QueryPublishedPublicVideos(ctx, since, partition.Category)
	if err != nil {
		if repository.IsTransient(err) {
			return nil, fmt.Errorf("%w: %w", ErrTransientStorage, err)
		}
		return nil, fmt.Errorf("query trending corpus: %w", err)
	}

	snapshot := &CorpusSnapshot{
		Stats:   make([]VideoStat, 0, len(videos)),
		Fetched: len(videos),
	}
	for _, v := range videos {
		if v == nil {
			snapshot.Skipped++
			continue
		}
		if v.ID == "" {
			s.skip(ctx, snapshot, v.ID, "empty video id")
			continue
		}
		if v.CreatedAt.IsZero() {
			s.skip(ctx, snapshot, v.ID, "missing created_at")
			continue
		}

		stat := VideoStat{ID: v.ID, Views: v.Views, Likes: v.Likes, CreatedAt: v.CreatedAt}
		if stat.CreatedAt.After(now) {
			if stat.CreatedAt.Sub(now) > clockSkewTolerance {
				s.skip(ctx, snapshot, v.ID, "created_at in the future")
				continue
			}
			stat.CreatedAt = now
		}

		if stat.Views < 0 || stat.Likes < 0 {
			log.WarnContext(ctx, "coerce negative counters to zero",
				"video_id", v.ID, "views", stat.Views, "likes", stat.Likes)
			stat.Views = max(stat.Views, 0)
			stat.Likes = max(stat.Likes, 0)
			snapshot.Coerced++
		}

		snapshot.Stats = append(snapshot.Stats, stat)
	}

	return snapshot, nil
}

func (s *corpusReaderImpl) skip(ctx context.Context, snapshot *CorpusSnapshot, videoID, reason string) {
	snapshot.Skipped++
	log.WarnContext(ctx, "skip video for trending",
		"video_id", videoID,
		"err", fmt.Errorf("%w: %s", ErrDataIntegrity, reason))
}
