package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/guiaturistica/reportes-api/internal/middleware"
	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/internal/services"
	"github.com/guiaturistica/reportes-api/pkg/logger"
)

type ReportHandler struct {
	reports *services.ReportService
	export  *services.ExportService
	jobs    *services.JobService
}

func NewReportHandler(reports *services.ReportService, export *services.ExportService, jobs *services.JobService) *ReportHandler {
	return &ReportHandler{reports: reports, export: export, jobs: jobs}
}

// ReportTypeResponse is one catalog entry
type ReportTypeResponse struct {
	Type  models.ReportType `json:"type" example:"general_summary"`
	Title string            `json:"title" example:"Resumen General"`
}

// @Summary List report types
// @Description Report types the caller may build. Administrators get all of them.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ReportTypeResponse
// @Router /reports/types [get]
func (h *ReportHandler) Types(c *gin.Context) {
	catalog := h.reports.Catalog(middleware.IsAdmin(c))
	out := make([]ReportTypeResponse, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, ReportTypeResponse{Type: t, Title: t.Title()})
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Preview a report
// @Description Builds a report and returns its JSON preview
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body models.ReportRequest true "Report request"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /reports/preview [post]
func (h *ReportHandler) Preview(c *gin.Context) {
	req, params, ok := h.bind(c)
	if !ok {
		return
	}
	rendered, err := h.export.Export(c.Request.Context(), params, req.Options(), models.TargetPreview)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, rendered.ContentType, rendered.Data)
}

// @Summary Export a report
// @Description Builds a report and downloads it as PDF or XLSX
// @Tags Reports
// @Accept json
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string true "Export format (pdf, xlsx)"
// @Param request body models.ReportRequest true "Report request"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 501 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	target, ok := formatTarget(c)
	if !ok {
		return
	}
	req, params, ok := h.bind(c)
	if !ok {
		return
	}
	rendered, err := h.export.Export(c.Request.Context(), params, req.Options(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", rendered.Filename))
	c.Data(http.StatusOK, rendered.ContentType, rendered.Data)
}

// @Summary Queue a report export
// @Description Queues a background export and returns the job
// @Tags Reports
// @Accept json
// @Produce json
// @Param format query string true "Export format (pdf, xlsx, json)"
// @Param request body models.ReportRequest true "Report request"
// @Security BearerAuth
// @Success 202 {object} models.ExportJob
// @Failure 400 {object} map[string]string
// @Failure 501 {object} map[string]string
// @Router /reports/jobs [post]
func (h *ReportHandler) SubmitJob(c *gin.Context) {
	target, ok := formatTarget(c)
	if !ok {
		return
	}
	req, _, ok := h.bind(c)
	if !ok {
		return
	}
	job, err := h.jobs.Submit(c.Request.Context(), req, target, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// @Summary Get an export job
// @Tags Reports
// @Produce json
// @Param job_id path string true "Job ID"
// @Security BearerAuth
// @Success 200 {object} models.ExportJob
// @Failure 404 {object} map[string]string
// @Router /reports/jobs/{job_id} [get]
func (h *ReportHandler) ShowJob(c *gin.Context) {
	job, err := h.jobs.Get(c.Param("job_id"), middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// @Summary Download an export job artifact
// @Tags Reports
// @Produce application/octet-stream
// @Param job_id path string true "Job ID"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reports/jobs/{job_id}/download [get]
func (h *ReportHandler) DownloadJob(c *gin.Context) {
	job, f, err := h.jobs.Open(c.Param("job_id"), middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, int64(job.Size), job.ContentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%s", job.Filename),
	})
}

// bind reads the request body and validates it against the caller
func (h *ReportHandler) bind(c *gin.Context) (models.ReportRequest, models.ReportParams, bool) {
	var req models.ReportRequest
	if err := BindNestedOrFlat(c, "report", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida: " + err.Error()})
		return req, models.ReportParams{}, false
	}
	params, err := req.ToParams(middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, models.ReportParams{}, false
	}
	return req, params, true
}

func formatTarget(c *gin.Context) (models.ExportTarget, bool) {
	target, ok := models.TargetFromFormat(c.Query("format"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato inválido (pdf, xlsx, json)"})
	}
	return target, ok
}

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	var unavailable *services.DataUnavailableError
	var renderer *services.RendererUnavailableError

	switch {
	case errors.As(err, &unavailable):
		captureException(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &renderer):
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":  fmt.Sprintf("Formato no disponible: %s", renderer.Target),
			"target": renderer.Target,
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trabajo de exportación no encontrado"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "El trabajo de exportación aún no ha terminado"})
	default:
		captureException(c, err)
		logger.FromContext(c.Request.Context()).Error("Report request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno al generar el reporte"})
	}
}

func captureException(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
