package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/internal/reporting"
	"github.com/jung-kurt/gofpdf"
)

type rgb struct{ r, g, b int }

var (
	colorBrand          = rgb{25, 118, 210}
	colorInk            = rgb{55, 71, 79}
	colorMuted          = rgb{97, 97, 97}
	colorMetricLabel    = rgb{240, 244, 252}
	colorTableHeader    = rgb{224, 235, 255}
	colorDeltaUp        = rgb{46, 125, 50}
	colorDeltaDown      = rgb{198, 40, 40}
	colorDeltaNone      = rgb{120, 120, 120}
	colorSectionMetrics = rgb{25, 118, 210}
	colorSectionDetails = rgb{84, 110, 122}
	colorSectionSummary = rgb{30, 136, 229}
	colorSectionChart   = rgb{38, 166, 154}
	colorSectionTable   = rgb{39, 76, 119}
	colorSectionAdvice  = rgb{56, 142, 60}
	colorGrid           = rgb{224, 224, 224}
	colorAxis           = rgb{158, 158, 158}

	seriesPalette = []rgb{{25, 118, 210}, {38, 166, 154}, {251, 140, 0}, {142, 36, 170}}

	// the core fonts have no arrows
	pdfSymbolReplacer = strings.NewReplacer("↗", "+", "→", "=", "↘", "-")
)

// Page geometry in millimetres
const (
	pdfMarginLeft        = 15.0
	pdfMarginTop         = 25.0
	pdfMarginRight       = 15.0
	pdfMarginBottom      = 18.0
	pdfChartHeight       = 70.0
	pdfMaxMetricsPerLine = 3
)

// Document section titles
const (
	SectionMetrics         = "Indicadores principales"
	SectionDetails         = "Detalles clave"
	SectionSummary         = "Resumen ejecutivo"
	SectionRecommendations = "Recomendaciones"
)

// DocumentRenderer draws the paginated document with gofpdf, chart included
type DocumentRenderer struct {
	compress bool
}

func NewDocumentRenderer(compress bool) *DocumentRenderer {
	return &DocumentRenderer{compress: compress}
}

func (r *DocumentRenderer) Target() models.ExportTarget { return models.TargetDocument }
func (r *DocumentRenderer) ContentType() string         { return "application/pdf" }
func (r *DocumentRenderer) Extension() string           { return "pdf" }

func (r *DocumentRenderer) Render(ctx context.Context, in RenderInput) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(in.Meta.GeneratedAt)
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)

	d := &pdfDocument{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetTitle(d.text(in.Meta.Title), false)
	pdf.SetCreator(d.text(in.Meta.AppTitle), false)

	pdf.SetHeaderFunc(func() {
		w, _ := pdf.GetPageSize()
		d.fill(colorBrand)
		pdf.Rect(0, 0, w, 18, "F")
		pdf.SetFont("Helvetica", "B", 12)
		d.color(rgb{255, 255, 255})
		pdf.SetXY(pdfMarginLeft, 5)
		pdf.CellFormat(0, 8, d.text(in.Meta.AppTitle+" - Reporte"), "", 0, "L", false, 0, "")
		pdf.SetXY(pdfMarginLeft, pdfMarginTop)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		d.color(colorDeltaNone)
		pdf.CellFormat(0, 10, d.text(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	d.titleBlock(in.Meta)

	c := in.Content
	if len(c.Metrics) > 0 {
		d.section(SectionMetrics, colorSectionMetrics)
		d.metrics(c.Metrics)
	}
	if len(c.DetailItems) > 0 {
		d.section(SectionDetails, colorSectionDetails)
		d.bullets(c.DetailItems)
	}
	if in.ShowSummary() && len(c.SummaryPoints) > 0 {
		d.section(SectionSummary, colorSectionSummary)
		d.bullets(c.SummaryPoints)
	}
	if in.ShowChart() {
		d.section(orDefault(c.Chart.Title, "Gráfico"), colorSectionChart)
		d.chart(c.Chart)
	}
	if in.ShowTable() {
		d.section(orDefault(c.Table.Title, "Tabla"), colorSectionTable)
		d.table(c.Table)
	}
	if in.ShowRecommendations() {
		d.section(SectionRecommendations, colorSectionAdvice)
		d.bullets(c.Recommendations)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfDocument struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// text converts UTF-8 to the core font code page
func (d *pdfDocument) text(s string) string {
	return d.tr(pdfSymbolReplacer.Replace(s))
}

func (d *pdfDocument) fill(c rgb)  { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *pdfDocument) color(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *pdfDocument) draw(c rgb)  { d.pdf.SetDrawColor(c.r, c.g, c.b) }

func (d *pdfDocument) usableWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

// ensureSpace starts a new page when h millimetres do not fit
func (d *pdfDocument) ensureSpace(h float64) {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h > pageH-pdfMarginBottom {
		d.pdf.AddPage()
	}
}

func (d *pdfDocument) titleBlock(meta models.RenderMeta) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 20)
	d.color(rgb{33, 33, 33})
	pdf.CellFormat(0, 12, d.text(meta.AppTitle), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 16)
	d.color(colorInk)
	pdf.CellFormat(0, 10, d.text(meta.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	d.color(colorMuted)
	pdf.CellFormat(0, 6, d.text("Generado: "+meta.Generated()), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, d.text("Período: "+meta.Period()), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (d *pdfDocument) section(title string, c rgb) {
	d.ensureSpace(20)
	d.pdf.Ln(2)
	d.fill(c)
	d.color(rgb{255, 255, 255})
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.CellFormat(0, 9, d.text(title), "", 1, "L", true, 0, "")
	d.pdf.Ln(2)
}

func (d *pdfDocument) metrics(items []models.Metric) {
	pdf := d.pdf
	for start := 0; start < len(items); start += pdfMaxMetricsPerLine {
		end := start + pdfMaxMetricsPerLine
		if end > len(items) {
			end = len(items)
		}
		row := items[start:end]
		w := d.usableWidth() / float64(len(row))
		d.ensureSpace(26)

		pdf.SetFont("Helvetica", "B", 10)
		d.fill(colorMetricLabel)
		d.color(colorInk)
		for _, m := range row {
			pdf.CellFormat(w, 8, d.text(m.Label), "", 0, "C", true, 0, "")
		}
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "B", 14)
		d.color(rgb{33, 33, 33})
		for _, m := range row {
			pdf.CellFormat(w, 10, d.text(m.Value), "", 0, "C", false, 0, "")
		}
		pdf.Ln(10)

		pdf.SetFont("Helvetica", "", 9)
		for _, m := range row {
			switch {
			case m.Delta == "":
				d.color(colorDeltaNone)
			case strings.HasPrefix(m.Delta, "-"):
				d.color(colorDeltaDown)
			default:
				d.color(colorDeltaUp)
			}
			pdf.CellFormat(w, 6, d.text(m.Delta), "", 0, "C", false, 0, "")
		}
		pdf.Ln(8)
	}
}

func (d *pdfDocument) bullets(items []string) {
	d.pdf.SetFont("Helvetica", "", 11)
	d.color(colorInk)
	for _, item := range items {
		d.pdf.MultiCell(0, 6, d.text("• "+item), "", "L", false)
	}
	d.pdf.Ln(2)
}

func (d *pdfDocument) table(t models.Table) {
	pdf := d.pdf
	w := d.usableWidth() / float64(len(t.Columns))

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		d.fill(colorTableHeader)
		d.color(colorInk)
		d.draw(colorAxis)
		for _, col := range t.Columns {
			pdf.CellFormat(w, 8, d.text(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(8)
	}

	d.ensureSpace(16)
	header()
	pdf.SetFont("Helvetica", "", 10)
	d.color(rgb{33, 33, 33})
	for _, row := range t.Rows {
		_, pageH := pdf.GetPageSize()
		if pdf.GetY()+8 > pageH-pdfMarginBottom {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 10)
			d.color(rgb{33, 33, 33})
		}
		for i := range t.Columns {
			value := ""
			if i < len(row) {
				value = row[i].String()
			}
			pdf.CellFormat(w, 8, d.text(value), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(8)
	}
	pdf.Ln(2)
}

// chart draws the series as vector bars or lines with a legend
func (d *pdfDocument) chart(chart models.Chart) {
	pdf := d.pdf
	data := chart.Data
	series := len(data.Columns) - 1
	points := len(data.Rows)
	if series < 1 || points == 0 {
		return
	}

	d.ensureSpace(pdfChartHeight + 4)
	x0, y0 := pdf.GetX(), pdf.GetY()
	width := d.usableWidth()

	const axisW, labelH, legendH = 14.0, 6.0, 8.0
	px, py := x0+axisW, y0+2
	pw := width - axisW
	ph := pdfChartHeight - labelH - legendH - 2

	maxV := 0.0
	for _, row := range data.Rows {
		for s := 1; s <= series && s < len(row); s++ {
			if v := row[s].Float(); v > maxV {
				maxV = v
			}
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	places := int32(0)
	if maxV < 10 {
		places = 1
	}

	pdf.SetLineWidth(0.2)
	pdf.SetFont("Helvetica", "", 7)
	d.color(colorMuted)
	for k := 0; k <= 4; k++ {
		y := py + ph - ph*float64(k)/4
		d.draw(colorGrid)
		pdf.Line(px, y, px+pw, y)
		pdf.SetXY(x0, y-2)
		pdf.CellFormat(axisW-1, 4, reporting.FormatFixed(maxV*float64(k)/4, places), "", 0, "R", false, 0, "")
	}
	d.draw(colorAxis)
	pdf.Line(px, py, px, py+ph)
	pdf.Line(px, py+ph, px+pw, py+ph)

	slot := pw / float64(points)
	yOf := func(v float64) float64 {
		if v < 0 {
			v = 0
		}
		return py + ph - ph*v/maxV
	}
	value := func(row []models.Cell, s int) float64 {
		if s < len(row) {
			return row[s].Float()
		}
		return 0
	}

	switch chart.Kind {
	case models.ChartBar:
		barW := slot * 0.7 / float64(series)
		for i, row := range data.Rows {
			for s := 1; s <= series; s++ {
				c := seriesPalette[(s-1)%len(seriesPalette)]
				d.fill(c)
				y := yOf(value(row, s))
				x := px + slot*float64(i) + slot*0.15 + barW*float64(s-1)
				pdf.Rect(x, y, barW, py+ph-y, "F")
			}
		}
	default:
		for s := 1; s <= series; s++ {
			c := seriesPalette[(s-1)%len(seriesPalette)]
			pts := make([]gofpdf.PointType, 0, points)
			for i, row := range data.Rows {
				pts = append(pts, gofpdf.PointType{X: px + slot*float64(i) + slot/2, Y: yOf(value(row, s))})
			}
			if chart.Kind == models.ChartArea {
				area := append([]gofpdf.PointType{{X: pts[0].X, Y: py + ph}}, pts...)
				area = append(area, gofpdf.PointType{X: pts[len(pts)-1].X, Y: py + ph})
				pdf.SetAlpha(0.25, "Normal")
				d.fill(c)
				pdf.Polygon(area, "F")
				pdf.SetAlpha(1, "Normal")
			}
			d.draw(c)
			d.fill(c)
			pdf.SetLineWidth(0.6)
			for i := 1; i < len(pts); i++ {
				pdf.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
			}
			for _, p := range pts {
				pdf.Circle(p.X, p.Y, 0.8, "F")
			}
		}
		pdf.SetLineWidth(0.2)
	}

	pdf.SetFont("Helvetica", "", 7)
	d.color(colorMuted)
	for i, row := range data.Rows {
		label := ""
		if len(row) > 0 {
			label = row[0].String()
		}
		pdf.SetXY(px+slot*float64(i), py+ph+1)
		pdf.CellFormat(slot, 4, d.text(label), "", 0, "C", false, 0, "")
	}

	lx, ly := px, py+ph+labelH+1
	for s := 1; s <= series; s++ {
		c := seriesPalette[(s-1)%len(seriesPalette)]
		d.fill(c)
		pdf.Rect(lx, ly+1, 3, 3, "F")
		name := d.text(data.Columns[s])
		pdf.SetXY(lx+4, ly)
		pdf.CellFormat(pdf.GetStringWidth(name)+2, 5, name, "", 0, "L", false, 0, "")
		lx += pdf.GetStringWidth(name) + 10
	}

	pdf.SetXY(x0, y0+pdfChartHeight+2)
	d.draw(colorAxis)
}
