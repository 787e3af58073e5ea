package consts

const (
	VideoStatusPublished  = "published"
	VideoVisibilityPublic = "public"
)

const (
	TrendingPeriodDaily   = "daily"
	TrendingPeriodWeekly  = "weekly"
	TrendingPeriodMonthly = "monthly"
)

const (
	RoleAdmin = "ADMIN"
)
