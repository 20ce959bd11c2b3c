package services

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/guiaturistica/reportes-api/internal/models"
)

// Preview section headings
const (
	HeadingMetrics         = "Indicadores principales"
	HeadingDetails         = "📋 Detalles Clave"
	HeadingSummary         = "📝 Resumen Ejecutivo"
	HeadingRecommendations = "💡 Recomendaciones"
)

type previewSection struct {
	Heading string   `json:"heading"`
	Items   []string `json:"items"`
}

// previewDocument keeps the fixed section order in its field order
type previewDocument struct {
	AppTitle        string          `json:"app_title"`
	Title           string          `json:"title"`
	Generated       string          `json:"generated"`
	Period          string          `json:"period"`
	ReportType      string          `json:"report_type"`
	Degraded        bool            `json:"degraded"`
	Metrics         []models.Metric `json:"metrics"`
	Details         previewSection  `json:"details"`
	Summary         *previewSection `json:"summary,omitempty"`
	Chart           *models.Chart   `json:"chart,omitempty"`
	Table           *models.Table   `json:"table,omitempty"`
	Recommendations *previewSection `json:"recommendations,omitempty"`
}

// PreviewRenderer serves the on-screen view as JSON
type PreviewRenderer struct{}

func NewPreviewRenderer() *PreviewRenderer {
	return &PreviewRenderer{}
}

func (r *PreviewRenderer) Target() models.ExportTarget { return models.TargetPreview }
func (r *PreviewRenderer) ContentType() string         { return "application/json" }
func (r *PreviewRenderer) Extension() string           { return "json" }

func (r *PreviewRenderer) Render(ctx context.Context, in RenderInput) ([]byte, error) {
	return json.Marshal(newPreviewDocument(in))
}

func newPreviewDocument(in RenderInput) previewDocument {
	c := in.Content
	doc := previewDocument{
		AppTitle:   in.Meta.AppTitle,
		Title:      in.Meta.Title,
		Generated:  in.Meta.Generated(),
		Period:     in.Meta.Period(),
		ReportType: string(c.ReportType),
		Degraded:   c.Degraded,
		Metrics:    nonNilMetrics(c.Metrics),
		Details:    previewSection{Heading: HeadingDetails, Items: nonNil(c.DetailItems)},
	}
	if in.ShowSummary() {
		doc.Summary = &previewSection{Heading: HeadingSummary, Items: nonNil(c.SummaryPoints)}
	}
	if in.ShowChart() {
		chart := c.Chart
		doc.Chart = &chart
	}
	if in.ShowTable() {
		table := c.Table
		doc.Table = &table
	}
	if in.ShowRecommendations() {
		doc.Recommendations = &previewSection{Heading: HeadingRecommendations, Items: nonNil(c.Recommendations)}
	}
	return doc
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func nonNilMetrics(metrics []models.Metric) []models.Metric {
	if metrics == nil {
		return []models.Metric{}
	}
	return metrics
}
