package wire

import (
	"StreamHub/internal/api"
	"StreamHub/internal/api/config"
	"StreamHub/internal/api/handler"
	"StreamHub/internal/job"
	"StreamHub/internal/pkg/cron"
	"StreamHub/internal/pkg/kafka"
	"StreamHub/internal/pkg/metrics"
	"StreamHub/internal/pkg/redis"
	"StreamHub/internal/repository"
	"StreamHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	Publisher    kafka.TrendingPublisher
	KafkaManager *kafka.ConsumerManager // 未开启消费时为 nil
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	videoRepo := repository.NewVideoRepository(db)
	trendingRepo := repository.NewTrendingRepository(db)
	redisHelper := redis.NewHelper()

	publisher, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	trendingService := service.NewTrendingService(service.TrendingServiceDeps{
		Reader:       service.NewCorpusReader(videoRepo, cfg.Trending.Windows),
		TrendingRepo: trendingRepo,
		VideoRepo:    videoRepo,
		KV:           redisHelper,
		Publisher:    publisher,
		Metrics:      metrics.NewTrendingMetrics(prometheus.DefaultRegisterer),
		Config:       cfg.Trending,
	})

	handlers := &api.HandlersGroup{
		TrendingHandler: handler.NewTrendingHandler(trendingService),
	}
	router := api.SetupRouter(handlers, redisHelper, cfg)

	trendingJob := job.NewTrendingJob(trendingService, cfg.Trending)
	cronMgr := cron.NewCronManager(trendingJob, cfg.Trending.Schedule)

	kafkaMgr, err := kafka.NewConsumerManager(cfg.Kafka, redisHelper)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		Publisher:    publisher,
		KafkaManager: kafkaMgr,
	}, nil
}
