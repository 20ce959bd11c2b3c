package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guiaturistica/reportes-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health *HealthHandler
	Report *ReportHandler
	Job    *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(),
		Report: NewReportHandler(svcs.Reports, svcs.Export, svcs.Job),
		Job:    NewJobHandler(svcs.Job),
	}
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "reportes-api",
		"version": "1.0.0",
	})
}

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobSvc}
}

// @Summary Get background job status
// @Description Worker pool statistics and export jobs by status
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}
