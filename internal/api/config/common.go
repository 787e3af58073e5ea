package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs 加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := LoadConfigFrom("./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// LoadConfigFrom 从指定目录读取 config.yaml，环境变量 STREAMHUB_* 可覆盖同名配置
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("STREAMHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验热门榜单配置，权重非法会导致分数出现负数或 NaN
func Validate(cfg *Config) error {
	if err := validator.New().Struct(&cfg.Trending); err != nil {
		return fmt.Errorf("invalid trending config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("jwt.issuer", "StreamHub")

	v.SetDefault("kafka.producer.trending_topic", "trending.updated")
	v.SetDefault("kafka.producer.timeout", 5)
	v.SetDefault("kafka.producer.retry_max", 3)
	v.SetDefault("kafka.video_consumer.topic", "canal.streamhub.videos")
	v.SetDefault("kafka.video_consumer.group_id", "streamhub-trending-cache")

	v.SetDefault("trending.view_weight", 0.6)
	v.SetDefault("trending.like_weight", 10)
	v.SetDefault("trending.min_age_hours", 1)
	v.SetDefault("trending.windows.daily", 7*24)
	v.SetDefault("trending.windows.weekly", 30*24)
	v.SetDefault("trending.windows.monthly", 90*24)
	v.SetDefault("trending.schedule", "@every 1h")
	v.SetDefault("trending.partitions", []map[string]any{{"period": "daily", "category": ""}})
	v.SetDefault("trending.job_timeout", 120)
	v.SetDefault("trending.lock_ttl", 300)
	v.SetDefault("trending.cache_ttl", 600)
	v.SetDefault("trending.list_limit", 100)
}
