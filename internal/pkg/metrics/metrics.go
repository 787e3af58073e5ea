package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess   = "success"
	OutcomeBusy      = "busy"
	OutcomeCanceled  = "canceled"
	OutcomeTransient = "transient"
	OutcomeFailed    = "failed"
)

// TrendingMetrics 榜单任务指标
type TrendingMetrics struct {
	RecomputeTotal    *prometheus.CounterVec
	RecomputeDuration *prometheus.HistogramVec
	SkippedVideos     *prometheus.CounterVec
	WrittenEntries    *prometheus.GaugeVec
}

// NewTrendingMetrics 创建并注册指标，重复注册时复用已存在的 collector
func NewTrendingMetrics(reg prometheus.Registerer) *TrendingMetrics {
	m := &TrendingMetrics{
		RecomputeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trending_recompute_total",
			Help: "Total number of trending recompute runs",
		}, []string{"period", "outcome"}),

		RecomputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trending_recompute_duration_seconds",
			Help:    "Trending recompute duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"period", "outcome"}),

		SkippedVideos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trending_skipped_videos_total",
			Help: "Videos skipped by the corpus reader due to invalid data",
		}, []string{"period"}),

		WrittenEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trending_partition_entries",
			Help: "Number of entries in the last written trending partition",
		}, []string{"period", "category"}),
	}

	m.RecomputeTotal = registerOrGet(reg, m.RecomputeTotal)
	m.RecomputeDuration = registerOrGet(reg, m.RecomputeDuration)
	m.SkippedVideos = registerOrGet(reg, m.SkippedVideos)
	m.WrittenEntries = registerOrGet(reg, m.WrittenEntries)
	return m
}

func (m *TrendingMetrics) ObserveRecompute(period, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RecomputeTotal.WithLabelValues(period, outcome).Inc()
	m.RecomputeDuration.WithLabelValues(period, outcome).Observe(elapsed.Seconds())
}

func (m *TrendingMetrics) ObserveSnapshot(period, category string, skipped, written int) {
	if m == nil {
		return
	}
	m.SkippedVideos.WithLabelValues(period).Add(float64(skipped))
	m.WrittenEntries.WithLabelValues(period, category).Set(float64(written))
}

func registerOrGet[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}
