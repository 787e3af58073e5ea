package api

import (
	"StreamHub/internal/api/config"
	"StreamHub/internal/api/middleware"
	"StreamHub/internal/pkg/consts"
	"StreamHub/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup, blacklist middleware.TokenBlacklist, cfg *config.Config) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, cfg.Logstash)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		apiGroup.GET("/trending", group.TrendingHandler.GetTrending)

		// 需要登录 & 拥有 admin 角色
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(blacklist), middleware.CheckRoles(consts.RoleAdmin), middleware.AuditMiddleware())
		{
			adminGroup.POST("/trending/recompute", group.TrendingHandler.Recompute)
		}
	}

	return r
}
