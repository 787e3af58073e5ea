package cron

import (
	"StreamHub/internal/job"
	"context"
	log "log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const stopTimeout = 30 * time.Second

type Manager struct {
	engine      *cron.Cron
	trendingJob *job.TrendingJob
	schedule    string
}

func NewCronManager(trendingJob *job.TrendingJob, schedule string) *Manager {
	cronLogger := slogCronLogger{}
	return &Manager{
		// 上一轮未结束时跳过本轮，避免同一进程内两次重算重叠
		engine: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		trendingJob: trendingJob,
		schedule:    schedule,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.schedule, s.trendingJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "schedule", s.schedule)
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务退出
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.trendingJob.Stop()
	done := s.engine.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Warn("Cron 任务未在超时前退出")
	}
}

// slogCronLogger 将 cron 内部日志转到 slog
type slogCronLogger struct{}

func (slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug("cron: "+msg, keysAndValues...)
}

func (slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
