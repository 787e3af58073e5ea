package service

import (
	"StreamHub/internal/api/config"
	"StreamHub/internal/api/dto"
	"StreamHub/internal/model"
	"StreamHub/internal/pkg/consts"
	"StreamHub/internal/pkg/kafka"
	"StreamHub/internal/pkg/metrics"
	"StreamHub/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const (
	defaultListLimit = 50
	defaultLockTTL   = 5 * time.Minute
	defaultCacheTTL  = 10 * time.Minute
	topEventSize     = 10
	// 过滤下架视频后条数不足时，最多读取 listLimit 的倍数
	maxFetchFactor = 4
)

type TrendingService interface {
	// RecomputeTrending 读取视频快照、计算热度并整体替换分区榜单
	RecomputeTrending(ctx context.Context, period, category string) (*dto.TrendingRecomputeDTO, error)
	// GetTrending 获取分区榜单，优先读缓存
	GetTrending(ctx context.Context, period, category string, limit int) (*dto.TrendingListDTO, error)
}

// TrendingKV 分区锁与榜单缓存
type TrendingKV interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteKey(ctx context.Context, key string) error
	TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value interface{})
}

type TrendingServiceDeps struct {
	Reader       CorpusReader
	TrendingRepo repository.TrendingRepo
	VideoRepo    repository.VideoRepo
	KV           TrendingKV
	Publisher    kafka.TrendingPublisher
	Metrics      *metrics.TrendingMetrics
	Config       config.TrendingConfig
	Now          func() time.Time
}

type trendingServiceImpl struct {
	reader       CorpusReader
	trendingRepo repository.TrendingRepo
	videoRepo    repository.VideoRepo
	kv           TrendingKV
	publisher    kafka.TrendingPublisher
	metrics      *metrics.TrendingMetrics
	weights      ScoreWeights
	lockTTL      time.Duration
	cacheTTL     time.Duration
	listLimit    int
	now          func() time.Time
}

func NewTrendingService(deps TrendingServiceDeps) TrendingService {
	weights := ScoreWeights{
		View:        deps.Config.ViewWeight,
		Like:        deps.Config.LikeWeight,
		MinAgeHours: deps.Config.MinAgeHours,
	}
	if weights.MinAgeHours <= 0 {
		weights = DefaultScoreWeights
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	listLimit := deps.Config.ListLimit
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	lockTTL := time.Duration(deps.Config.LockTTL) * time.Second
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	cacheTTL := time.Duration(deps.Config.CacheTTL) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &trendingServiceImpl{
		reader:       deps.Reader,
		trendingRepo: deps.TrendingRepo,
		videoRepo:    deps.VideoRepo,
		kv:           deps.KV,
		publisher:    publisher,
		metrics:      deps.Metrics,
		weights:      weights,
		lockTTL:      lockTTL,
		cacheTTL:     cacheTTL,
		listLimit:    listLimit,
		now:          now,
	}
}

func (s *trendingServiceImpl) RecomputeTrending(ctx context.Context, period, category string) (*dto.TrendingRecomputeDTO, error) {
	partition, err := NewPartition(period, category)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	started := time.Now()
	res, err := s.recompute(ctx, partition, runID)
	s.metrics.ObserveRecompute(partition.Period, recomputeOutcome(err), time.Since(started))
	if err != nil {
		log.ErrorContext(ctx, "trending recompute failed",
			"run_id", runID, "period", partition.Period, "category", partition.Category, "err", err)
		return nil, err
	}
	res.DurationMs = time.Since(started).Milliseconds()

	log.InfoContext(ctx, "trending recompute success",
		"run_id", runID,
		"period", partition.Period,
		"category", partition.Category,
		"fetched", res.Fetched,
		"skipped", res.Skipped,
		"written", res.Written,
		"duration_ms", res.DurationMs)
	return res, nil
}

func (s *trendingServiceImpl) recompute(ctx context.Context, partition Partition, runID string) (*dto.TrendingRecomputeDTO, error) {
	// 同一分区同时只允许一个任务写入，避免两次运行的结果交错
	lockKey := consts.TrendingRecomputeLock + partition.Key()
	locked, err := s.kv.TryLock(ctx, lockKey, runID, s.lockTTL, 1)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: acquire lock: %w", ErrTransientStorage, err)
	}
	if !locked {
		return nil, ErrRecomputeBusy
	}
	defer s.kv.UnLock(context.WithoutCancel(ctx), lockKey, runID)

	now := s.now()
	snapshot, err := s.reader.ReadCorpus(ctx, partition, now)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	scored := CalculateScores(snapshot.Stats, now, s.weights)
	entries := RankTrending(scored, partition, now)
	for _, e := range entries {
		e.RunID = runID
	}

	// 写入前检查取消；写入开始后不再响应取消，由事务保证原子性
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	writeCtx := context.WithoutCancel(ctx)

	if err = s.trendingRepo.ReplacePartition(writeCtx, partition.Period, partition.Category, entries); err != nil {
		switch {
		case errors.Is(err, repository.ErrPartialWrite):
			return nil, fmt.Errorf("%w: %w", ErrPartialWrite, err)
		case repository.IsTransient(err):
			return nil, fmt.Errorf("%w: %w", ErrTransientStorage, err)
		default:
			return nil, fmt.Errorf("replace trending partition: %w", err)
		}
	}

	s.switchGeneration(writeCtx, partition, runID)
	s.publish(writeCtx, runID, partition, entries, now)
	s.metrics.ObserveSnapshot(partition.Period, partition.Category, snapshot.Skipped, len(entries))

	return &dto.TrendingRecomputeDTO{
		RunID:      runID,
		Period:     partition.Period,
		Category:   partition.Category,
		Fetched:    snapshot.Fetched,
		Skipped:    snapshot.Skipped,
		Coerced:    snapshot.Coerced,
		Written:    len(entries),
		ComputedAt: now,
	}, nil
}

// switchGeneration 先切换分区版本再删除缓存，重算前开始的读取即使回写缓存也不会再被命中
func (s *trendingServiceImpl) switchGeneration(ctx context.Context, partition Partition, runID string) {
	genKey := consts.TrendingGenerationKey + partition.Key()
	if err := s.kv.SetWithExpiration(ctx, genKey, runID, 0); err != nil {
		log.WarnContext(ctx, "switch trending generation error", "partition", partition.Key(), "err", err)
		// 无版本号时读取端不使用缓存
		if err = s.kv.DeleteKey(ctx, genKey); err != nil {
			log.WarnContext(ctx, "drop trending generation error", "partition", partition.Key(), "err", err)
		}
	}
	if err := s.kv.DeleteKey(ctx, consts.TrendingListKey+partition.Key()); err != nil {
		log.WarnContext(ctx, "invalidate trending cache error", "partition", partition.Key(), "err", err)
	}
}

// publish 事件发布失败不影响本次榜单结果
func (s *trendingServiceImpl) publish(ctx context.Context, runID string, partition Partition, entries []*model.TrendingVideo, computedAt time.Time) {
	top := make([]string, 0, min(len(entries), topEventSize))
	for _, e := range entries[:min(len(entries), topEventSize)] {
		top = append(top, e.VideoID)
	}

	err := s.publisher.PublishTrendingUpdated(ctx, &kafka.TrendingUpdatedEvent{
		RunID:       runID,
		Period:      partition.Period,
		Category:    partition.Category,
		Count:       len(entries),
		TopVideoIDs: top,
		ComputedAt:  computedAt,
	})
	if err != nil {
		log.WarnContext(ctx, "publish trending event error", "run_id", runID, "err", err)
	}
}

func (s *trendingServiceImpl) GetTrending(ctx context.Context, period, category string, limit int) (*dto.TrendingListDTO, error) {
	if period == "" {
		period = consts.TrendingPeriodDaily
	}
	partition, err := NewPartition(period, category)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, s.listLimit)

	key := consts.TrendingListKey + partition.Key()
	generation, err := s.kv.GetValue(ctx, consts.TrendingGenerationKey+partition.Key())
	if err != nil {
		log.WarnContext(ctx, "read trending generation error", "partition", partition.Key(), "err", err)
		generation = ""
	}
	if generation != "" {
		if val, err := s.kv.GetValue(ctx, key); err == nil && val != "" {
			var cached dto.TrendingListDTO
			if err = json.Unmarshal([]byte(val), &cached); err != nil {
				log.WarnContext(ctx, "decode trending cache error", "key", key, "err", err)
			} else if cached.RunID == generation {
				return truncateTrending(&cached, limit), nil
			}
		}
	}

	res, err := s.loadTrending(ctx, partition)
	if err != nil {
		return nil, err
	}

	// 版本号在读库之前获取，读取期间发生重算时 RunID 不一致，结果不写回缓存
	if generation != "" && res.RunID == generation {
		if data, err := json.Marshal(res); err == nil {
			if err = s.kv.SetWithExpiration(ctx, key, string(data), s.cacheTTL); err != nil {
				log.WarnContext(ctx, "write trending cache error", "key", key, "err", err)
			}
		}
	}

	return truncateTrending(res, limit), nil
}

func (s *trendingServiceImpl) loadTrending(ctx context.Context, partition Partition) (*dto.TrendingListDTO, error) {
	res := &dto.TrendingListDTO{
		Period:   partition.Period,
		Category: partition.Category,
	}

	// 下架视频不计入条数，不足 listLimit 且还有剩余行时扩大读取范围
	for fetch := s.listLimit; ; fetch *= 2 {
		entries, err := s.trendingRepo.ListPartition(ctx, partition.Period, partition.Category, fetch)
		if err != nil {
			if repository.IsTransient(err) {
				return nil, fmt.Errorf("%w: %w", ErrTransientStorage, err)
			}
			return nil, err
		}
		videos, err := s.visibleVideos(ctx, entries)
		if err != nil {
			return nil, err
		}

		if len(videos) >= s.listLimit || len(entries) < fetch || fetch >= s.listLimit*maxFetchFactor {
			res.Videos = videos[:min(len(videos), s.listLimit)]
			if len(entries) > 0 {
				computedAt := entries[0].ComputedAt
				res.ComputedAt = &computedAt
				res.RunID = entries[0].RunID
			}
			return res, nil
		}
	}
}

// visibleVideos 关联视频信息，计算后被删除或下架的视频不再展示，名次保持计算时的值
func (s *trendingServiceImpl) visibleVideos(ctx context.Context, entries []*model.TrendingVideo) ([]*dto.TrendingVideoDTO, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.VideoID)
	}
	videos, err := s.videoRepo.GetVideosByIds(ctx, ids)
	if err != nil {
		if repository.IsTransient(err) {
			return nil, fmt.Errorf("%w: %w", ErrTransientStorage, err)
		}
		return nil, err
	}
	videoMap := make(map[string]*model.Video, len(videos))
	for _, v := range videos {
		videoMap[v.ID] = v
	}

	res := make([]*dto.TrendingVideoDTO, 0, len(entries))
	for _, e := range entries {
		v, ok := videoMap[e.VideoID]
		if !ok || v.Status != consts.VideoStatusPublished || v.Visibility != consts.VideoVisibilityPublic {
			continue
		}
		item := &dto.TrendingVideoDTO{}
		_ = copier.Copy(item, v)
		item.VideoID = e.VideoID
		item.Rank = e.Rank
		item.Score = e.Score
		res = append(res, item)
	}
	return res, nil
}

func truncateTrending(list *dto.TrendingListDTO, limit int) *dto.TrendingListDTO {
	if len(list.Videos) > limit {
		list.Videos = list.Videos[:limit]
	}
	return list
}

func recomputeOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrRecomputeBusy):
		return metrics.OutcomeBusy
	case errors.Is(err, ErrTransientStorage):
		return metrics.OutcomeTransient
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}
