package api

import (
	"Pulseboard/internal/api/middleware"
	"Pulseboard/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// 只读聚合接口，展示层按 user_id 拉取
		statsGroup := apiGroup.Group("")
		{
			statsGroup.GET("/daily-stats", group.DailyStatHandler.List)
			statsGroup.GET("/daily-stats/:id", group.DailyStatHandler.GetByID)
			statsGroup.GET("/daily-stats-aggregated", group.DailyStatHandler.Aggregate)

			statsGroup.GET("/daily-stat-metrics", group.MetricHandler.List)
			statsGroup.GET("/daily-stat-metrics/:id", group.MetricHandler.GetByID)
			statsGroup.GET("/daily-stat-metrics-by-type", group.MetricHandler.GroupedByType)
		}

		// 设置页的绑定管理，需要登录
		integrationGroup := apiGroup.Group("/integrations")
		integrationGroup.Use(middleware.AuthMiddleware())
		{
			integrationGroup.GET("", group.AccountLinkHandler.ListIntegrations)
			integrationGroup.PUT("/:provider", group.AccountLinkHandler.Store)
			integrationGroup.DELETE("/:provider", group.AccountLinkHandler.Disconnect)
		}
	}

	return r
}
