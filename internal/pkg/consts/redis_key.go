package consts

const (
	TokenBlacklistKey = "token:blacklist:"
	TrendingListKey   = "trending:list:"
	// 分区当前生效的 run_id，榜单缓存仅在与之一致时有效
	TrendingGenerationKey = "trending:gen:"
)

const (
	TrendingRecomputeLock = "lock:trending:"
)
