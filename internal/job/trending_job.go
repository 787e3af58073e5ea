package job

import (
	"StreamHub/internal/api/config"
	"StreamHub/internal/pkg/logger"
	"StreamHub/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"
)

const defaultJobTimeout = 2 * time.Minute

// TrendingJob 定时重算配置中的全部榜单分区
type TrendingJob struct {
	trendingSvc service.TrendingService
	partitions  []config.TrendingPartition
	timeout     time.Duration

	// 进程退出时取消，尚未进入写入阶段的计算直接放弃
	ctx    context.Context
	cancel context.CancelFunc
}

func NewTrendingJob(trendingSvc service.TrendingService, cfg config.TrendingConfig) *TrendingJob {
	timeout := time.Duration(cfg.JobTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TrendingJob{
		trendingSvc: trendingSvc,
		partitions:  cfg.Partitions,
		timeout:     timeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (s *TrendingJob) Run() {
	for _, p := range s.partitions {
		if s.ctx.Err() != nil {
			return
		}
		s.runPartition(p)
	}
}

func (s *TrendingJob) runPartition(p config.TrendingPartition) {
	ctx := logger.WithTraceID(s.ctx, logger.NewTraceID("job-trending"))
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.trendingSvc.RecomputeTrending(ctx, p.Period, p.Category)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrRecomputeBusy):
		// 另一实例正在计算同一分区
		log.InfoContext(ctx, "trending partition busy, skip", "period", p.Period, "category", p.Category)
	case errors.Is(err, service.ErrTransientStorage):
		log.WarnContext(ctx, "trending job transient error, retry next round",
			"period", p.Period, "category", p.Category, "err", err)
	default:
		log.ErrorContext(ctx, "trending job error", "period", p.Period, "category", p.Category, "err", err)
	}
}

// Stop 取消未完成的计算，已开始的写入会继续完成
func (s *TrendingJob) Stop() {
	s.cancel()
}
