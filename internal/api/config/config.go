package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Trending TrendingConfig `mapstructure:"trending"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志配置，连接失败时仅输出到 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type KafkaConfig struct {
	Enable        bool           `mapstructure:"enable"`
	Brokers       []string       `mapstructure:"brokers"`
	Sasl          SaslConfig     `mapstructure:"sasl"`
	Producer      ProducerConfig `mapstructure:"producer"`
	VideoConsumer ConsumerConfig `mapstructure:"video_consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ProducerConfig struct {
	TrendingTopic string `mapstructure:"trending_topic"`
	Timeout       int    `mapstructure:"timeout"`
	RetryMax      int    `mapstructure:"retry_max"`
}

// ConsumerConfig canal 推送的视频表变更
type ConsumerConfig struct {
	Enable  bool   `mapstructure:"enable"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// TrendingConfig 热门榜单计算配置
type TrendingConfig struct {
	ViewWeight  float64 `mapstructure:"view_weight" validate:"gte=0"`
	LikeWeight  float64 `mapstructure:"like_weight" validate:"gte=0"`
	MinAgeHours float64 `mapstructure:"min_age_hours" validate:"gt=0"`

	// 各周期回溯窗口（小时）
	Windows TrendingWindows `mapstructure:"windows"`

	Schedule   string              `mapstructure:"schedule" validate:"required"`
	Partitions []TrendingPartition `mapstructure:"partitions" validate:"dive"`

	JobTimeout int `mapstructure:"job_timeout" validate:"gt=0"` // 秒
	LockTTL    int `mapstructure:"lock_ttl" validate:"gt=0"`    // 秒
	CacheTTL   int `mapstructure:"cache_ttl" validate:"gt=0"`   // 秒
	ListLimit  int `mapstructure:"list_limit" validate:"gt=0,lte=500"`
}

type TrendingWindows struct {
	Daily   int `mapstructure:"daily" validate:"gt=0"`
	Weekly  int `mapstructure:"weekly" validate:"gt=0"`
	Monthly int `mapstructure:"monthly" validate:"gt=0"`
}

// TrendingPartition 定时任务需要刷新的榜单分区，Category 为空表示全部分类
type TrendingPartition struct {
	Period   string `mapstructure:"period" validate:"oneof=daily weekly monthly"`
	Category string `mapstructure:"category" validate:"max=64"`
}
