package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	// WorkbookSheet is the single sheet of the workbook
	WorkbookSheet = "Reporte"

	workbookLastColumn = "E"
	workbookMaxWidth   = 50
	workbookHeaderFill = "366092"
)

// WorkbookRenderer stacks the report sections on a single excelize sheet
type WorkbookRenderer struct{}

func NewWorkbookRenderer() *WorkbookRenderer {
	return &WorkbookRenderer{}
}

func (r *WorkbookRenderer) Target() models.ExportTarget { return models.TargetWorkbook }
func (r *WorkbookRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *WorkbookRenderer) Extension() string { return "xlsx" }

func (r *WorkbookRenderer) Render(ctx context.Context, in RenderInput) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", WorkbookSheet); err != nil {
		return nil, err
	}
	w, err := newWorkbookWriter(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook styles: %w", err)
	}

	w.title(in.Meta)

	c := in.Content
	if len(c.Metrics) > 0 {
		w.section(SectionMetrics, colorSectionMetrics)
		w.metrics(c.Metrics)
	}
	if len(c.DetailItems) > 0 {
		w.section(SectionDetails, colorSectionDetails)
		w.bullets(c.DetailItems)
	}
	if in.ShowSummary() && len(c.SummaryPoints) > 0 {
		w.section(SectionSummary, colorSectionSummary)
		w.bullets(c.SummaryPoints)
	}
	if in.ShowChart() {
		w.section(orDefault(c.Chart.Title, "Gráfico"), colorSectionChart)
		w.chart(c.Chart)
	}
	if in.ShowTable() {
		w.section(orDefault(c.Table.Title, "Tabla"), colorSectionTable)
		w.table(c.Table)
	}
	if in.ShowRecommendations() {
		w.section(SectionRecommendations, colorSectionAdvice)
		w.bullets(c.Recommendations)
	}
	w.autoSize()

	if w.err != nil {
		return nil, w.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// workbookWriter keeps the cursor row and the first error; later calls are
// no-ops once an error is recorded
type workbookWriter struct {
	f      *excelize.File
	row    int
	widths map[int]int
	err    error

	titleStyle    int
	subtitleStyle int
	labelStyle    int
	headerStyle   int
	cellStyle     int
	bulletStyle   int
	sectionStyles map[rgb]int
	decimalStyles map[int32]int
}

func newWorkbookWriter(f *excelize.File) (*workbookWriter, error) {
	w := &workbookWriter{
		f:             f,
		row:           1,
		widths:        map[int]int{},
		sectionStyles: map[rgb]int{},
		decimalStyles: map[int32]int{},
	}
	var err error
	if w.titleStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return nil, err
	}
	if w.subtitleStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return nil, err
	}
	if w.labelStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return nil, err
	}
	if w.headerStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{workbookHeaderFill}, Pattern: 1},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if w.cellStyle, err = f.NewStyle(&excelize.Style{
		Border: thinBorders(),
	}); err != nil {
		return nil, err
	}
	if w.bulletStyle, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}); err != nil {
		return nil, err
	}
	return w, nil
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func (w *workbookWriter) check(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

// set writes a value and tracks the column width
func (w *workbookWriter) set(col int, value any, style int) {
	cell := cellName(col, w.row)
	w.check(w.f.SetCellValue(WorkbookSheet, cell, value))
	if style > 0 {
		w.check(w.f.SetCellStyle(WorkbookSheet, cell, cell, style))
	}
	if n := utf8.RuneCountInString(fmt.Sprint(value)); n > w.widths[col] {
		w.widths[col] = n
	}
}

// merged writes text across A:E of the current row
func (w *workbookWriter) merged(text string, style int) {
	first := cellName(1, w.row)
	last := fmt.Sprintf("%s%d", workbookLastColumn, w.row)
	w.check(w.f.SetCellValue(WorkbookSheet, first, text))
	w.check(w.f.MergeCell(WorkbookSheet, first, last))
	if style > 0 {
		w.check(w.f.SetCellStyle(WorkbookSheet, first, last, style))
	}
}

func (w *workbookWriter) title(meta models.RenderMeta) {
	w.merged(meta.AppTitle, w.titleStyle)
	w.row++
	w.merged(meta.Title, w.subtitleStyle)
	w.row++
	w.set(1, "Generado:", w.labelStyle)
	w.set(2, meta.Generated(), 0)
	w.row++
	w.set(1, "Período:", w.labelStyle)
	w.set(2, meta.Period(), 0)
	w.row += 2
}

func (w *workbookWriter) section(title string, c rgb) {
	style, ok := w.sectionStyles[c]
	if !ok {
		var err error
		style, err = w.f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{strings.TrimPrefix(hexColor(c), "#")}, Pattern: 1},
		})
		w.check(err)
		w.sectionStyles[c] = style
	}
	w.merged(title, style)
	w.row++
}

func (w *workbookWriter) header(columns []string) {
	for i, col := range columns {
		w.set(i+1, col, w.headerStyle)
	}
	w.row++
}

func (w *workbookWriter) metrics(items []models.Metric) {
	w.header([]string{"Métrica", "Valor", "Variación"})
	for _, m := range items {
		w.set(1, m.Label, w.cellStyle)
		w.set(2, m.Value, w.cellStyle)
		w.set(3, m.Delta, w.cellStyle)
		w.row++
	}
	w.row++
}

func (w *workbookWriter) bullets(items []string) {
	for _, item := range items {
		w.merged("• "+item, w.bulletStyle)
		w.row++
	}
	w.row++
}

func (w *workbookWriter) decimalStyle(places int32) int {
	if style, ok := w.decimalStyles[places]; ok {
		return style
	}
	format := "0"
	if places > 0 {
		format += "." + strings.Repeat("0", int(places))
	}
	style, err := w.f.NewStyle(&excelize.Style{Border: thinBorders(), CustomNumFmt: &format})
	w.check(err)
	w.decimalStyles[places] = style
	return style
}

// rows writes typed cells and returns the first and last row written
func (w *workbookWriter) rows(t models.Table) (int, int) {
	first := w.row
	for _, row := range t.Rows {
		for i, cell := range row {
			style := w.cellStyle
			if cell.Kind == models.CellDecimal {
				style = w.decimalStyle(cell.Places)
			}
			w.set(i+1, cell.Value(), style)
			// the stored float drops trailing zeros; size for the display form
			if n := utf8.RuneCountInString(cell.String()); n > w.widths[i+1] {
				w.widths[i+1] = n
			}
		}
		w.row++
	}
	return first, w.row - 1
}

func (w *workbookWriter) table(t models.Table) {
	w.header(t.Columns)
	w.rows(t)
	w.row++
}

// chart writes the series as a table and anchors a native chart beside it
func (w *workbookWriter) chart(chart models.Chart) {
	anchor := cellName(7, w.row)
	headerRow := w.row
	w.header(chart.Data.Columns)
	first, last := w.rows(chart.Data)

	chartType := excelize.Line
	switch chart.Kind {
	case models.ChartBar:
		chartType = excelize.Col
	case models.ChartArea:
		chartType = excelize.Area
	}

	series := make([]excelize.ChartSeries, 0, len(chart.Data.Columns)-1)
	for col := 2; col <= len(chart.Data.Columns); col++ {
		name := columnName(col)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$%d", WorkbookSheet, name, headerRow),
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", WorkbookSheet, first, last),
			Values:     fmt.Sprintf("%s!$%s$%d:$%s$%d", WorkbookSheet, name, first, name, last),
		})
	}
	if len(series) > 0 {
		w.check(w.f.AddChart(WorkbookSheet, anchor, &excelize.Chart{
			Type:      chartType,
			Series:    series,
			Title:     []excelize.RichTextRun{{Text: chart.Title}},
			Legend:    excelize.ChartLegend{Position: "bottom"},
			Dimension: excelize.ChartDimension{Width: 480, Height: 260},
		}))
	}

	// leave room for the chart when the series table is short
	if minRows := headerRow + 14; w.row < minRows {
		w.row = minRows
	}
	w.row++
}

// autoSize sets each column to its longest value plus padding, capped
func (w *workbookWriter) autoSize() {
	for col, n := range w.widths {
		width := n + 2
		if width > workbookMaxWidth {
			width = workbookMaxWidth
		}
		name := columnName(col)
		w.check(w.f.SetColWidth(WorkbookSheet, name, name, float64(width)))
	}
}
