package api

import "StreamHub/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	TrendingHandler *handler.TrendingHandler
}
