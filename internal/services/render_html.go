package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/guiaturistica/reportes-api/internal/models"
)

//go:embed templates/reports/*.html
var reportTemplates embed.FS

var reportTemplate = template.Must(template.ParseFS(reportTemplates, "templates/reports/report.html"))

type htmlBar struct {
	Series  string
	Value   string
	Percent float64
	Color   string
}

type htmlChartRow struct {
	Label string
	Bars  []htmlBar
}

type htmlSection struct {
	Title string
	Color string
	Items []string
}

type htmlView struct {
	Meta            models.RenderMeta
	MetricRows      [][]models.Metric
	Details         *htmlSection
	Summary         *htmlSection
	ChartTitle      string
	ChartRows       []htmlChartRow
	Table           *models.Table
	Recommendations *htmlSection
}

// HTMLDocumentRenderer fills an HTML template and converts it with the
// wkhtmltopdf binary
type HTMLDocumentRenderer struct{}

// NewHTMLDocumentRenderer points the converter at binPath when it is set,
// otherwise the binary is looked up on PATH
func NewHTMLDocumentRenderer(binPath string) *HTMLDocumentRenderer {
	if binPath != "" {
		wkhtmltopdf.SetPath(binPath)
	}
	return &HTMLDocumentRenderer{}
}

func (r *HTMLDocumentRenderer) Target() models.ExportTarget { return models.TargetDocument }
func (r *HTMLDocumentRenderer) ContentType() string         { return "application/pdf" }
func (r *HTMLDocumentRenderer) Extension() string           { return "pdf" }

func (r *HTMLDocumentRenderer) Render(ctx context.Context, in RenderInput) ([]byte, error) {
	html, err := RenderHTML(in)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, &RendererUnavailableError{Target: models.TargetDocument, Err: err}
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Title.Set(in.Meta.Title)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.EnableLocalFileAccess.Set(true)
	page.FooterCenter.Set("Página [page]")
	page.FooterFontSize.Set(8)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}

// RenderHTML executes the report template
func RenderHTML(in RenderInput) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, newHTMLView(in)); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func hexColor(c rgb) string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

func newHTMLView(in RenderInput) htmlView {
	c := in.Content
	view := htmlView{Meta: in.Meta}
	for start := 0; start < len(c.Metrics); start += pdfMaxMetricsPerLine {
		end := start + pdfMaxMetricsPerLine
		if end > len(c.Metrics) {
			end = len(c.Metrics)
		}
		view.MetricRows = append(view.MetricRows, c.Metrics[start:end])
	}
	if len(c.DetailItems) > 0 {
		view.Details = &htmlSection{Title: SectionDetails, Color: hexColor(colorSectionDetails), Items: c.DetailItems}
	}
	if in.ShowSummary() && len(c.SummaryPoints) > 0 {
		view.Summary = &htmlSection{Title: SectionSummary, Color: hexColor(colorSectionSummary), Items: c.SummaryPoints}
	}
	if in.ShowChart() {
		view.ChartTitle = c.Chart.Title
		view.ChartRows = htmlChart(c.Chart)
	}
	if in.ShowTable() {
		table := c.Table
		view.Table = &table
	}
	if in.ShowRecommendations() {
		view.Recommendations = &htmlSection{Title: SectionRecommendations, Color: hexColor(colorSectionAdvice), Items: c.Recommendations}
	}
	return view
}

// htmlChart turns the series into proportional bars
func htmlChart(chart models.Chart) []htmlChartRow {
	data := chart.Data
	maxV := 0.0
	for _, row := range data.Rows {
		if len(row) == 0 {
			continue
		}
		for _, cell := range row[1:] {
			if v := cell.Float(); v > maxV {
				maxV = v
			}
		}
	}

	rows := make([]htmlChartRow, 0, len(data.Rows))
	for _, row := range data.Rows {
		if len(row) == 0 {
			continue
		}
		out := htmlChartRow{Label: row[0].String()}
		for s, cell := range row[1:] {
			name := ""
			if s+1 < len(data.Columns) {
				name = data.Columns[s+1]
			}
			pct := 0.0
			if maxV > 0 {
				pct = cell.Float() / maxV * 100
			}
			out.Bars = append(out.Bars, htmlBar{
				Series:  name,
				Value:   cell.String(),
				Percent: pct,
				Color:   hexColor(seriesPalette[s%len(seriesPalette)]),
			})
		}
		rows = append(rows, out)
	}
	return rows
}
