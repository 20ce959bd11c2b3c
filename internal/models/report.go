package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportType selects which report variant is built
type ReportType string

// Report types
const (
	ReportGeneralSummary ReportType = "general_summary"
	ReportUserActivity   ReportType = "user_activity"
	ReportPopularity     ReportType = "popularity"
	ReportFinancial      ReportType = "financial"
	ReportTrends         ReportType = "trends"
)

// ReportTypes lists every known report type in catalog order
var ReportTypes = []ReportType{
	ReportGeneralSummary,
	ReportUserActivity,
	ReportPopularity,
	ReportFinancial,
	ReportTrends,
}

// ReportTitles are the display titles used by renderers
var ReportTitles = map[ReportType]string{
	ReportGeneralSummary: "Resumen General",
	ReportUserActivity:   "Actividad de Usuario",
	ReportPopularity:     "Popularidad de Atractivos",
	ReportFinancial:      "Reporte Financiero",
	ReportTrends:         "Tendencias y Estadísticas",
}

// IsValid reports whether t is a known report type
func (t ReportType) IsValid() bool {
	_, ok := ReportTitles[t]
	return ok
}

// RequiresPrivilege reports whether only administrators may build t
func (t ReportType) RequiresPrivilege() bool {
	return t != ReportUserActivity
}

// Title returns the display title, falling back to the raw type
func (t ReportType) Title() string {
	if title, ok := ReportTitles[t]; ok {
		return title
	}
	return string(t)
}

// CellKind is the type of a table cell
type CellKind string

const (
	CellText    CellKind = "text"
	CellInteger CellKind = "integer"
	CellDecimal CellKind = "decimal"
)

// Cell is a typed table value. String is the display form every renderer
// prints and Value is what a workbook stores; both come from the same
// rounded number.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
	Places int32
}

// TextCell builds a text cell
func TextCell(text string) Cell {
	return Cell{Kind: CellText, Text: text}
}

// IntCell builds an integer cell
func IntCell(n int) Cell {
	return Cell{Kind: CellInteger, Number: decimal.NewFromInt(int64(n))}
}

// DecimalCell builds a decimal cell rounded to places; non-finite values
// become 0
func DecimalCell(f float64, places int32) Cell {
	if !IsFinite(f) {
		f = 0
	}
	return Cell{Kind: CellDecimal, Number: decimal.NewFromFloat(f).Round(places), Places: places}
}

// String returns the display text
func (c Cell) String() string {
	switch c.Kind {
	case CellInteger:
		return c.Number.String()
	case CellDecimal:
		return c.Number.StringFixed(c.Places)
	}
	return c.Text
}

// Value returns the cell as a native value for spreadsheets and JSON
func (c Cell) Value() any {
	switch c.Kind {
	case CellInteger:
		return c.Number.IntPart()
	case CellDecimal:
		return c.Number.InexactFloat64()
	}
	return c.Text
}

// Float returns the numeric value, 0 for text cells
func (c Cell) Float() float64 {
	if c.Kind == CellText {
		return 0
	}
	return c.Number.InexactFloat64()
}

// MarshalJSON encodes the cell as its native value
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Kind == CellDecimal {
		return []byte(c.String()), nil
	}
	return json.Marshal(c.Value())
}

// Table is a titled grid of typed cells
type Table struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// IsEmpty reports whether the table has nothing to render
func (t Table) IsEmpty() bool {
	return len(t.Columns) == 0 || len(t.Rows) == 0
}

// Column returns the cells of column idx
func (t Table) Column(idx int) []Cell {
	cells := make([]Cell, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			cells = append(cells, row[idx])
		}
	}
	return cells
}

// ChartKind is the series shape of a chart
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartArea ChartKind = "area"
)

// Chart is a titled series table. Column 0 is the category axis and every
// other column is one series.
type Chart struct {
	Title string    `json:"title"`
	Kind  ChartKind `json:"series_kind"`
	Data  Table     `json:"rows"`
}

// IsEmpty reports whether the chart has no data
func (c Chart) IsEmpty() bool {
	return c.Data.IsEmpty()
}

// Metric is a headline number with an optional annotation
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// ReportContent is the format-agnostic result handed to renderers. It is
// built once per request and never mutated afterwards.
type ReportContent struct {
	ReportType      ReportType `json:"report_type"`
	Degraded        bool       `json:"degraded"`
	SummaryPoints   []string   `json:"summary_points"`
	DetailItems     []string   `json:"detail_items"`
	Metrics         []Metric   `json:"metrics"`
	Chart           Chart      `json:"chart"`
	Table           Table      `json:"table"`
	Recommendations []string   `json:"recommendations"`
}

// DegradedContent returns a valid content value carrying a single message
func DegradedContent(reportType ReportType, message string, kind ChartKind) *ReportContent {
	return &ReportContent{
		ReportType:      reportType,
		Degraded:        true,
		SummaryPoints:   []string{message},
		DetailItems:     []string{},
		Metrics:         []Metric{},
		Chart:           Chart{Kind: kind},
		Recommendations: []string{},
	}
}

// ExportTarget is an output surface of the exporter
type ExportTarget string

const (
	TargetPreview  ExportTarget = "preview"
	TargetDocument ExportTarget = "document"
	TargetWorkbook ExportTarget = "workbook"
)

// TargetFromFormat maps a file format (pdf, xlsx, json) to its target
func TargetFromFormat(format string) (ExportTarget, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "pdf", string(TargetDocument):
		return TargetDocument, true
	case "xlsx", "excel", string(TargetWorkbook):
		return TargetWorkbook, true
	case "json", string(TargetPreview):
		return TargetPreview, true
	}
	return "", false
}

// RenderOptions controls which optional sections are rendered
type RenderOptions struct {
	IncludeSummary         bool `json:"include_summary"`
	IncludeTables          bool `json:"include_tables"`
	IncludeCharts          bool `json:"include_charts"`
	IncludeRecommendations bool `json:"include_recommendations"`
}

// AllSections renders every section
func AllSections() RenderOptions {
	return RenderOptions{
		IncludeSummary:         true,
		IncludeTables:          true,
		IncludeCharts:          true,
		IncludeRecommendations: true,
	}
}

// RenderMeta is the clock-dependent header attached outside the builder
type RenderMeta struct {
	AppTitle    string    `json:"app_title"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Period returns the "dd/mm/yyyy - dd/mm/yyyy" period line
func (m RenderMeta) Period() string {
	return fmt.Sprintf("%s - %s", m.Start.Format("02/01/2006"), m.End.Format("02/01/2006"))
}

// Generated returns the "dd/mm/yyyy hh:mm" generation line
func (m RenderMeta) Generated() string {
	return m.GeneratedAt.Format("02/01/2006 15:04")
}

// RenderedReport is a rendered artifact tagged with its MIME type
type RenderedReport struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

// ReportRequest is the caller-facing request body
type ReportRequest struct {
	ReportType             ReportType `json:"report_type" binding:"required" example:"general_summary"`
	StartDate              string     `json:"start_date" binding:"required" example:"2026-01-01"`
	EndDate                string     `json:"end_date" binding:"required" example:"2026-03-31"`
	ActorFilter            string     `json:"user_id,omitempty"`
	LocationFilter         string     `json:"city_id,omitempty"`
	CountryFilter          string     `json:"country,omitempty"`
	IncludeSummary         *bool      `json:"include_summary,omitempty"`
	IncludeTables          *bool      `json:"include_tables,omitempty"`
	IncludeCharts          *bool      `json:"include_charts,omitempty"`
	IncludeRecommendations *bool      `json:"include_recommendations,omitempty"`
}

// Options returns the render options; unset flags default to true
func (r ReportRequest) Options() RenderOptions {
	flag := func(v *bool) bool { return v == nil || *v }
	return RenderOptions{
		IncludeSummary:         flag(r.IncludeSummary),
		IncludeTables:          flag(r.IncludeTables),
		IncludeCharts:          flag(r.IncludeCharts),
		IncludeRecommendations: flag(r.IncludeRecommendations),
	}
}

// ReportParams is a validated request bound to the calling identity
type ReportParams struct {
	Type         ReportType
	Start        time.Time
	End          time.Time
	ActorID      string
	LocationID   string
	Country      string
	CallerID     string
	IsPrivileged bool
}

const dateLayout = "2006-01-02"

// ToParams validates the request and binds it to the caller. Non-privileged
// callers are always scoped to their own actor id. Reversed dates are
// swapped.
func (r ReportRequest) ToParams(callerID string, privileged bool) (ReportParams, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(r.StartDate))
	if err != nil {
		return ReportParams{}, fmt.Errorf("start_date inválida, formato esperado YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(r.EndDate))
	if err != nil {
		return ReportParams{}, fmt.Errorf("end_date inválida, formato esperado YYYY-MM-DD")
	}
	if end.Before(start) {
		start, end = end, start
	}
	actor := strings.TrimSpace(r.ActorFilter)
	if actor != "" {
		if _, err := uuid.Parse(actor); err != nil {
			return ReportParams{}, fmt.Errorf("user_id debe ser un UUID válido")
		}
	}
	if !privileged && callerID != "" {
		actor = callerID
	}
	return ReportParams{
		Type:         r.ReportType,
		Start:        start,
		End:          end,
		ActorID:      actor,
		LocationID:   strings.TrimSpace(r.LocationFilter),
		Country:      strings.TrimSpace(r.CountryFilter),
		CallerID:     callerID,
		IsPrivileged: privileged,
	}, nil
}
