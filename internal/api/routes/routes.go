package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easayliu/emby-tv-organizer/internal/api/handlers"
	"github.com/easayliu/emby-tv-organizer/internal/application/services/jobs"
)

// RoutesConfig 路由配置
type RoutesConfig struct {
	jobService *jobs.Service
}

// NewRoutesConfig 创建路由配置
func NewRoutesConfig(jobService *jobs.Service) *RoutesConfig {
	return &RoutesConfig{jobService: jobService}
}

// SetupRoutes 设置路由
func (rc *RoutesConfig) SetupRoutes(router *gin.Engine) {
	jobHandler := handlers.NewJobHandler(rc.jobService)
	wsHandler := handlers.NewWSHandler(rc.jobService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		organize := api.Group("/organize")
		{
			organize.POST("/preview", jobHandler.CreatePreview)
			organize.POST("/execute", jobHandler.Execute)
		}

		jobGroup := api.Group("/jobs")
		{
			jobGroup.GET("", jobHandler.ListJobs)
			jobGroup.GET("/:id", jobHandler.GetJob)
			jobGroup.POST("/:id/cancel", jobHandler.CancelJob)
			jobGroup.PUT("/:id/shows/:show_id/select", jobHandler.SelectShow)
			jobGroup.PUT("/:id/shows/:show_id/seasons/:n/select", jobHandler.SelectSeason)
			jobGroup.PUT("/:id/shows/:show_id/category", jobHandler.SetCategory)
			jobGroup.GET("/:id/ws", wsHandler.WatchJob)
		}
	}
}
