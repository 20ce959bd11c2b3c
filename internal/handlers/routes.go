package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guiaturistica/reportes-api/internal/middleware"
)

// RegisterRoutes mounts the /api/v1 routes on router
func RegisterRoutes(router *gin.Engine, h *Handlers, jwtSecret string) {
	v1 := router.Group("/api/v1")

	// Health check (public)
	v1.GET("/health", h.Health.Index)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtSecret))
	{
		reports := protected.Group("/reports")
		{
			reports.GET("/types", h.Report.Types)
			reports.POST("/preview", h.Report.Preview)
			reports.POST("/export", h.Report.Export)
			reports.POST("/jobs", h.Report.SubmitJob)
			reports.GET("/jobs/:job_id", h.Report.ShowJob)
			reports.GET("/jobs/:job_id/download", h.Report.DownloadJob)
		}

		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/jobs/status", h.Job.Status)
		}
	}
}
