package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guiaturistica/reportes-api/internal/metrics"
	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/pkg/logger"
)

// DefaultAppTitle heads every rendering
const DefaultAppTitle = "Guía Turística Virtual"

// RenderInput is what a renderer receives: built content plus the
// clock-dependent header and the section switches
type RenderInput struct {
	Content *models.ReportContent
	Meta    models.RenderMeta
	Options models.RenderOptions
}

// ShowSummary reports whether the summary section is rendered. Degraded
// content always shows it since it carries the only message.
func (in RenderInput) ShowSummary() bool {
	return in.Options.IncludeSummary || in.Content.Degraded
}

func (in RenderInput) ShowChart() bool {
	return in.Options.IncludeCharts && !in.Content.Chart.IsEmpty()
}

func (in RenderInput) ShowTable() bool {
	return in.Options.IncludeTables && !in.Content.Table.IsEmpty()
}

func (in RenderInput) ShowRecommendations() bool {
	return in.Options.IncludeRecommendations && len(in.Content.Recommendations) > 0
}

// Renderer projects report content onto one export target
type Renderer interface {
	Target() models.ExportTarget
	ContentType() string
	Extension() string
	Render(ctx context.Context, in RenderInput) ([]byte, error)
}

// ExportService renders report content to the registered targets
type ExportService struct {
	reports   *ReportService
	renderers map[models.ExportTarget]Renderer
	appTitle  string
	now       func() time.Time
}

func NewExportService(reports *ReportService, appTitle string, renderers ...Renderer) *ExportService {
	if appTitle == "" {
		appTitle = DefaultAppTitle
	}
	s := &ExportService{
		reports:   reports,
		renderers: make(map[models.ExportTarget]Renderer, len(renderers)),
		appTitle:  appTitle,
		now:       time.Now,
	}
	for _, r := range renderers {
		if r != nil {
			s.renderers[r.Target()] = r
		}
	}
	return s
}

// Supports reports whether a renderer is registered for target
func (s *ExportService) Supports(target models.ExportTarget) bool {
	_, ok := s.renderers[target]
	return ok
}

// Meta builds the render header for a request
func (s *ExportService) Meta(params models.ReportParams, generatedAt time.Time) models.RenderMeta {
	return models.RenderMeta{
		AppTitle:    s.appTitle,
		Title:       params.Type.Title(),
		Start:       params.Start,
		End:         params.End,
		GeneratedAt: generatedAt,
	}
}

// Export builds the report for params and renders it to target. The content
// is built once; the generated-at header is attached here.
func (s *ExportService) Export(ctx context.Context, params models.ReportParams, options models.RenderOptions, target models.ExportTarget) (*models.RenderedReport, error) {
	if !s.Supports(target) {
		metrics.ReportRenderErrors.WithLabelValues(string(target), "unavailable").Inc()
		return nil, &RendererUnavailableError{Target: target}
	}
	content, err := s.reports.Build(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, target, RenderInput{
		Content: content,
		Meta:    s.Meta(params, s.now()),
		Options: options,
	})
}

// Render projects content onto target. A missing renderer only affects
// that target; other render failures are returned wrapped.
func (s *ExportService) Render(ctx context.Context, target models.ExportTarget, in RenderInput) (*models.RenderedReport, error) {
	if in.Content == nil {
		return nil, fmt.Errorf("render %s: empty report content", target)
	}
	renderer, ok := s.renderers[target]
	if !ok {
		metrics.ReportRenderErrors.WithLabelValues(string(target), "unavailable").Inc()
		return nil, &RendererUnavailableError{Target: target}
	}
	if in.Meta.AppTitle == "" {
		in.Meta.AppTitle = s.appTitle
	}

	started := time.Now()
	data, err := renderer.Render(ctx, in)
	if err != nil {
		var unavailable *RendererUnavailableError
		if errors.As(err, &unavailable) {
			metrics.ReportRenderErrors.WithLabelValues(string(target), "unavailable").Inc()
			return nil, unavailable
		}
		metrics.ReportRenderErrors.WithLabelValues(string(target), "failed").Inc()
		logger.FromContext(ctx).Error("Report render failed",
			"target", target,
			"report_type", in.Content.ReportType,
			"error", err,
		)
		return nil, fmt.Errorf("failed to render %s: %w", target, err)
	}
	metrics.ObserveRender(string(target), len(data), started)

	return &models.RenderedReport{
		Data:        data,
		ContentType: renderer.ContentType(),
		Filename:    ReportFilename(in.Meta.GeneratedAt, renderer.Extension()),
	}, nil
}

// ReportFilename returns report_{timestamp}.{ext}
func ReportFilename(generatedAt time.Time, ext string) string {
	return fmt.Sprintf("report_%s.%s", generatedAt.Format("20060102_150405"), ext)
}
