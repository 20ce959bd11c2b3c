package services

import (
	"github.com/guiaturistica/reportes-api/internal/config"
	"github.com/guiaturistica/reportes-api/internal/jobs"
	"github.com/guiaturistica/reportes-api/internal/repository"
	"github.com/guiaturistica/reportes-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Reports *ReportService
	Export  *ExportService
	Job     *JobService
}

// NewServices creates all service instances over one record source
func NewServices(records repository.RecordRepository, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config) *Services {
	reports := NewReportService(records, ReportSettings{
		MaxWindows: cfg.ReportMaxWindow,
		Currency:   cfg.ReportCurrency,
	})
	export := NewExportService(reports, cfg.AppTitle, Renderers(cfg)...)

	return &Services{
		Reports: reports,
		Export:  export,
		Job:     NewJobService(export, worker, store, cfg.ExportJobTTL),
	}
}

// Renderers returns the renderer set for the configured document engine
func Renderers(cfg *config.Config) []Renderer {
	var document Renderer = NewDocumentRenderer(cfg.IsProduction())
	if cfg.DocumentEngine == config.EngineWkhtmltopdf {
		document = NewHTMLDocumentRenderer(cfg.WkhtmltopdfPath)
	}
	return []Renderer{NewPreviewRenderer(), document, NewWorkbookRenderer()}
}
