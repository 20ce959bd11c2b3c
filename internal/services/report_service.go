package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guiaturistica/reportes-api/internal/metrics"
	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/internal/reporting"
	"github.com/guiaturistica/reportes-api/internal/repository"
	"github.com/guiaturistica/reportes-api/pkg/logger"
)

// Degraded result messages
const (
	MsgAdminOnly         = "Este reporte está disponible solo para administradores."
	MsgUnknownReportType = "Tipo de reporte no reconocido."
	MsgNoValidUser       = "No se encontró un usuario válido para generar el reporte."
)

// ReportSettings tunes report building
type ReportSettings struct {
	MaxWindows int
	Currency   string
}

// ReportService builds report content from the record source
type ReportService struct {
	records  repository.RecordRepository
	settings ReportSettings
}

func NewReportService(records repository.RecordRepository, settings ReportSettings) *ReportService {
	if settings.MaxWindows <= 0 {
		settings.MaxWindows = reporting.DefaultMaxWindows
	}
	if settings.Currency == "" {
		settings.Currency = reporting.DefaultCurrency
	}
	return &ReportService{records: records, settings: settings}
}

// Catalog returns the report types the caller may build
func (s *ReportService) Catalog(privileged bool) []models.ReportType {
	types := make([]models.ReportType, 0, len(models.ReportTypes))
	for _, t := range models.ReportTypes {
		if t.RequiresPrivilege() && !privileged {
			continue
		}
		types = append(types, t)
	}
	return types
}

// Build pulls the records a report needs and assembles its content.
// Authorization and unknown report types yield degraded content; only a
// failing data source returns an error.
func (s *ReportService) Build(ctx context.Context, params models.ReportParams) (*models.ReportContent, error) {
	started := time.Now()
	content, err := s.build(ctx, params)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
		logger.FromContext(ctx).Error("Report build failed",
			"report_type", params.Type,
			"error", err,
		)
	case content.Degraded:
		result = "degraded"
	}
	metrics.ObserveBuild(string(params.Type), result, started)
	return content, err
}

func (s *ReportService) build(ctx context.Context, params models.ReportParams) (*models.ReportContent, error) {
	if !params.Type.IsValid() {
		return models.DegradedContent(params.Type, MsgUnknownReportType, models.ChartLine), nil
	}
	if params.Type.RequiresPrivilege() && !params.IsPrivileged {
		kind := models.ChartLine
		if params.Type == models.ReportPopularity {
			kind = models.ChartBar
		}
		return models.DegradedContent(params.Type, MsgAdminOnly, kind), nil
	}

	from, to := reporting.DayRange(params.Start, params.End)
	windows := reporting.BuildWindows(params.Start, params.End, s.settings.MaxWindows)
	criteria := reporting.Criteria{
		ActorID:    params.ActorID,
		LocationID: params.LocationID,
		Country:    params.Country,
	}
	b := builder{windows: windows, currency: s.settings.Currency}

	switch params.Type {
	case models.ReportUserActivity:
		target := params.ActorID
		if target == "" {
			target = params.CallerID
		}
		if target == "" {
			return b.userRequired(), nil
		}
		criteria.ActorID = target
		ds, err := s.dataset(ctx, criteria, from, to,
			models.KindVisits, models.KindBookings, models.KindAchievements)
		if err != nil {
			return nil, err
		}
		profile, err := s.profile(ctx, target)
		if err != nil {
			return nil, err
		}
		return b.userActivity(ds, profile), nil

	case models.ReportGeneralSummary:
		ds, err := s.dataset(ctx, criteria, from, to, models.KindVisits, models.KindBookings)
		if err != nil {
			return nil, err
		}
		return b.generalSummary(ds), nil

	case models.ReportPopularity:
		ds, err := s.dataset(ctx, criteria, from, to, models.KindVisits, models.KindBookings)
		if err != nil {
			return nil, err
		}
		return b.popularity(ds), nil

	case models.ReportFinancial:
		ds, err := s.dataset(ctx, criteria, from, to, models.KindBookings)
		if err != nil {
			return nil, err
		}
		return b.financial(ds), nil

	case models.ReportTrends:
		ds, err := s.dataset(ctx, criteria, from, to,
			models.KindVisits, models.KindBookings, models.KindUsageEvents, models.KindNewUsers)
		if err != nil {
			return nil, err
		}
		return b.trends(ds), nil
	}

	return models.DegradedContent(params.Type, MsgUnknownReportType, models.ChartLine), nil
}

// Dataset is the filtered input of one report build
type Dataset struct {
	Visits       []models.Record
	Bookings     []models.Record
	UsageEvents  []models.Record
	Achievements []models.Record
	NewUsers     []models.Record
}

// dataset pulls each kind once and scopes it. Usage events, achievements
// and new users carry no place, so only the actor filter applies to them.
func (s *ReportService) dataset(ctx context.Context, criteria reporting.Criteria, from, to time.Time, kinds ...models.RecordKind) (*Dataset, error) {
	ds := &Dataset{}
	actorOnly := reporting.Criteria{ActorID: criteria.ActorID}

	for _, kind := range kinds {
		records, err := s.records.GetRecords(ctx, kind, from, to)
		if err != nil {
			return nil, &DataUnavailableError{Op: fmt.Sprintf("get_records(%s)", kind), Err: err}
		}
		records = reporting.FilterByDate(records, kind.TimestampField(), from, to)

		switch kind {
		case models.KindVisits:
			ds.Visits = reporting.FilterRecords(records, criteria)
		case models.KindBookings:
			ds.Bookings = reporting.FilterRecords(records, criteria)
		case models.KindUsageEvents:
			ds.UsageEvents = reporting.FilterRecords(records, actorOnly)
		case models.KindAchievements:
			ds.Achievements = reporting.FilterRecords(records, actorOnly)
		case models.KindNewUsers:
			ds.NewUsers = reporting.FilterRecords(records, actorOnly)
		}
	}
	return ds, nil
}

func (s *ReportService) profile(ctx context.Context, actorID string) (*models.ActorRef, error) {
	actor, err := s.records.GetActor(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.ActorRef{ID: actorID}, nil
		}
		return nil, &DataUnavailableError{Op: fmt.Sprintf("get_actor(%s)", actorID), Err: err}
	}
	return actor, nil
}

// builder assembles report content. Its methods are pure: the same dataset
// always yields the same content.
type builder struct {
	windows  []reporting.Window
	currency string
}

// BuildContent assembles the content of reportType from an already scoped
// dataset. It performs no I/O.
func BuildContent(reportType models.ReportType, ds *Dataset, windows []reporting.Window, currency string, profile *models.ActorRef) *models.ReportContent {
	b := builder{windows: windows, currency: currency}
	switch reportType {
	case models.ReportGeneralSummary:
		return b.generalSummary(ds)
	case models.ReportUserActivity:
		if profile == nil {
			return b.userRequired()
		}
		return b.userActivity(ds, profile)
	case models.ReportPopularity:
		return b.popularity(ds)
	case models.ReportFinancial:
		return b.financial(ds)
	case models.ReportTrends:
		return b.trends(ds)
	}
	return models.DegradedContent(reportType, MsgUnknownReportType, models.ChartLine)
}

func (b builder) money(v float64) string {
	return reporting.FormatCurrency(v, b.currency)
}

// series builds a chart table: the window labels plus one column per series
func (b builder) series(names []string, columns ...[]models.Cell) models.Table {
	table := models.Table{Columns: names}
	for i, w := range b.windows {
		row := []models.Cell{models.TextCell(w.Label)}
		for _, col := range columns {
			row = append(row, col[i])
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func intCells(values []int) []models.Cell {
	cells := make([]models.Cell, len(values))
	for i, v := range values {
		cells[i] = models.IntCell(v)
	}
	return cells
}

func moneyCells(values []float64) []models.Cell {
	cells := make([]models.Cell, len(values))
	for i, v := range values {
		cells[i] = models.DecimalCell(v, 2)
	}
	return cells
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func cityKey(rec models.Record) string {
	_, name, _ := rec.ResolveLocation()
	return orDefault(name, "Sin ciudad")
}

func cityAttrs(rec models.Record) map[string]string {
	_, _, country := rec.ResolveLocation()
	return map[string]string{"country": orDefault(country, "N/D")}
}

const (
	tallyVisits   = "visits"
	tallyBookings = "bookings"
)

func (b builder) generalSummary(ds *Dataset) *models.ReportContent {
	visits, bookings := ds.Visits, ds.Bookings
	confirmed := reporting.Confirmed(bookings)
	pending := len(reporting.Pending(bookings))
	revenue := reporting.Sum(confirmed, "total_price")

	chart := b.series([]string{"Periodo", "Visitas", "Reservas"},
		intCells(reporting.CountByWindow(visits, models.KindVisits.TimestampField(), b.windows)),
		intCells(reporting.CountByWindow(bookings, models.KindBookings.TimestampField(), b.windows)),
	)

	cities := reporting.NewGroups().
		Add(visits, reporting.GroupSpec{Key: cityKey, Attrs: cityAttrs, Tally: tallyVisits}).
		Add(bookings, reporting.GroupSpec{Key: cityKey, Attrs: cityAttrs, Tally: tallyBookings})
	top := reporting.TopN(cities.List(), reporting.ByTally(tallyVisits), 5)

	table := models.Table{
		Title:   "Desempeño por ciudad",
		Columns: []string{"Ciudad", "País", "Visitas", "Reservas"},
	}
	for _, g := range top {
		table.Rows = append(table.Rows, []models.Cell{
			models.TextCell(g.Key),
			models.TextCell(g.Attr("country")),
			models.IntCell(g.Tally[tallyVisits]),
			models.IntCell(g.Tally[tallyBookings]),
		})
	}
	if len(top) == 0 {
		table.Rows = [][]models.Cell{{
			models.TextCell("Sin datos"), models.TextCell("-"), models.IntCell(0), models.IntCell(0),
		}}
	}

	uniqueUsers := reporting.UniqueActors(visits)
	avgTicket := reporting.Ratio(revenue, float64(len(confirmed)))

	firstRec := "Promueve nuevos destinos."
	if len(top) > 0 {
		firstRec = fmt.Sprintf("Refuerza campañas en %s para capitalizar sus %d visitas.", top[0].Key, top[0].Tally[tallyVisits])
	}

	return &models.ReportContent{
		ReportType: models.ReportGeneralSummary,
		SummaryPoints: []string{
			fmt.Sprintf("Visitas registradas en el período: %d.", len(visits)),
			fmt.Sprintf("Reservas totales: %d (confirmadas: %d).", len(bookings), len(confirmed)),
			fmt.Sprintf("Ingresos estimados: %s.", b.money(revenue)),
		},
		DetailItems: []string{
			fmt.Sprintf("Usuarios únicos impactados: %d.", uniqueUsers),
			fmt.Sprintf("Reservas pendientes: %d.", pending),
			fmt.Sprintf("Ticket promedio: %s.", b.money(avgTicket)),
		},
		Metrics: []models.Metric{
			{Label: "Visitas registradas", Value: fmt.Sprint(len(visits)), Delta: fmt.Sprintf("%d semanas", len(b.windows))},
			{Label: "Reservas confirmadas", Value: fmt.Sprint(len(confirmed)), Delta: fmt.Sprintf("%d pendientes", pending)},
			{Label: "Ingresos estimados", Value: b.money(revenue), Delta: fmt.Sprintf("%d operaciones", len(confirmed))},
		},
		Chart: models.Chart{
			Title: "Evolución semanal de visitas y reservas",
			Kind:  models.ChartLine,
			Data:  chart,
		},
		Table: table,
		Recommendations: []string{
			firstRec,
			fmt.Sprintf("Da seguimiento a las %d reservas pendientes para evitar cancelaciones.", pending),
			"Comparte testimonios en los destinos con mejor valoración.",
		},
	}
}

func (b builder) userRequired() *models.ReportContent {
	content := models.DegradedContent(models.ReportUserActivity, MsgNoValidUser, models.ChartLine)
	content.Chart.Title = "Actividad semanal del usuario"
	content.Chart.Data = b.series([]string{"Periodo", "Interacciones"}, intCells(make([]int, len(b.windows))))
	content.Table.Title = "Participación por categoría"
	content.Recommendations = []string{"Inicia sesión o selecciona un usuario para continuar."}
	return content
}

func categoryKey(rec models.Record) string {
	return orDefault(rec.Category(), "General")
}

// latest returns the record with the newest timestamp; the first one wins ties
func latest(records []models.Record, field string) (models.Record, time.Time, bool) {
	var (
		best   models.Record
		bestAt time.Time
		found  bool
	)
	for _, rec := range records {
		at, ok := rec.Timestamp(field)
		if !ok {
			continue
		}
		if !found || at.After(bestAt) {
			best, bestAt, found = rec, at, true
		}
	}
	return best, bestAt, found
}

func (b builder) userActivity(ds *Dataset, profile *models.ActorRef) *models.ReportContent {
	visits, bookings, achievements := ds.Visits, ds.Bookings, ds.Achievements
	confirmed := reporting.Confirmed(bookings)

	chart := b.series([]string{"Periodo", "Interacciones", "Reservas"},
		intCells(reporting.CountByWindow(visits, models.KindVisits.TimestampField(), b.windows)),
		intCells(reporting.CountByWindow(bookings, models.KindBookings.TimestampField(), b.windows)),
	)

	categories := reporting.NewGroups().
		Add(visits, reporting.GroupSpec{Key: categoryKey, CollectRatings: true, Tally: tallyVisits}).
		Add(bookings, reporting.GroupSpec{Key: categoryKey, Tally: tallyBookings})
	ranked := reporting.TopN(categories.List(), reporting.ByTally(tallyVisits), 0)

	table := models.Table{
		Title:   "Participación por categoría",
		Columns: []string{"Categoría", "Visitas", "Reservas", "Valoración"},
	}
	for _, g := range ranked {
		table.Rows = append(table.Rows, []models.Cell{
			models.TextCell(g.Key),
			models.IntCell(g.Tally[tallyVisits]),
			models.IntCell(g.Tally[tallyBookings]),
			models.DecimalCell(g.MeanRating(), 2),
		})
	}
	if len(ranked) == 0 {
		table.Rows = [][]models.Cell{{
			models.TextCell("Sin datos"), models.IntCell(0), models.IntCell(0), models.DecimalCell(0, 2),
		}}
	}

	summary := []string{
		fmt.Sprintf("Visitas registradas en el período: %d.", len(visits)),
		fmt.Sprintf("Reservas confirmadas: %d.", len(confirmed)),
		fmt.Sprintf("Puntos acumulados: %d.", profile.TotalPoints),
	}
	if last, at, ok := latest(visits, models.KindVisits.TimestampField()); ok {
		summary = append(summary, fmt.Sprintf("Última visita: %s (%s).",
			orDefault(last.PlaceName(), "Actividad reciente"), at.Format("02/01/2006")))
	}

	firstRec := "Agenda tu primera visita en el período seleccionado."
	if len(visits) > 0 {
		firstRec = "Planifica una nueva visita en la ciudad filtrada para mantener el ritmo."
		if len(ranked) > 0 && ranked[0].Tally[tallyVisits] > 0 {
			firstRec = fmt.Sprintf("Planifica una nueva visita de %s, tu categoría más activa, para mantener el ritmo.", ranked[0].Key)
		}
	}

	return &models.ReportContent{
		ReportType:    models.ReportUserActivity,
		SummaryPoints: summary,
		DetailItems: []string{
			fmt.Sprintf("Correo asociado: %s", orDefault(profile.Email, "sin correo")),
			fmt.Sprintf("Logros obtenidos en el período: %d", len(achievements)),
			fmt.Sprintf("Reservas pendientes: %d", len(bookings)-len(confirmed)),
		},
		Metrics: []models.Metric{
			{Label: "Lugares visitados", Value: fmt.Sprint(len(visits)), Delta: fmt.Sprintf("%d POIs únicos", reporting.UniquePlaces(visits))},
			{Label: "Reservas confirmadas", Value: fmt.Sprint(len(confirmed)), Delta: fmt.Sprintf("%d totales", len(bookings))},
			{Label: "Logros obtenidos", Value: fmt.Sprint(len(achievements)), Delta: "Actualizados al rango seleccionado"},
		},
		Chart: models.Chart{
			Title: "Actividad semanal del usuario",
			Kind:  models.ChartLine,
			Data:  chart,
		},
		Table: table,
		Recommendations: []string{
			firstRec,
			"Comparte reseñas después de cada experiencia para mejorar tus recomendaciones.",
			"Aprovecha el saldo de puntos para desbloquear beneficios adicionales.",
		},
	}
}

func placeAttrs(rec models.Record) map[string]string {
	_, city, _ := rec.ResolveLocation()
	return map[string]string{
		"name": orDefault(rec.PlaceName(), "Sin nombre"),
		"city": orDefault(city, "N/D"),
	}
}

func placeKey(rec models.Record) string {
	return rec.ResolvePlaceID()
}

func (b builder) popularity(ds *Dataset) *models.ReportContent {
	places := reporting.NewGroups().
		Add(ds.Visits, reporting.GroupSpec{Key: placeKey, Attrs: placeAttrs, CollectRatings: true, Tally: tallyVisits}).
		Add(ds.Bookings, reporting.GroupSpec{Key: placeKey, Attrs: placeAttrs, Tally: tallyBookings})
	top := reporting.TopN(places.List(), reporting.ByTally(tallyVisits), 5)

	table := models.Table{
		Title:   "Top 5 atractivos",
		Columns: []string{"Lugar", "Ciudad", "Visitas", "Reservas", "Valoración"},
	}
	chart := models.Table{Columns: []string{"Lugar", "Visitas"}}

	var visitCounts, bookingCounts, ratings []float64
	for _, g := range top {
		rating := models.DecimalCell(g.MeanRating(), 2)
		table.Rows = append(table.Rows, []models.Cell{
			models.TextCell(g.Attr("name")),
			models.TextCell(g.Attr("city")),
			models.IntCell(g.Tally[tallyVisits]),
			models.IntCell(g.Tally[tallyBookings]),
			rating,
		})
		chart.Rows = append(chart.Rows, []models.Cell{
			models.TextCell(g.Attr("name")),
			models.IntCell(g.Tally[tallyVisits]),
		})
		visitCounts = append(visitCounts, float64(g.Tally[tallyVisits]))
		bookingCounts = append(bookingCounts, float64(g.Tally[tallyBookings]))
		ratings = append(ratings, rating.Float())
	}
	if len(top) == 0 {
		table.Rows = [][]models.Cell{{
			models.TextCell("Sin datos"), models.TextCell("-"), models.IntCell(0), models.IntCell(0), models.DecimalCell(0, 2),
		}}
		chart.Rows = [][]models.Cell{{models.TextCell("Sin datos"), models.IntCell(0)}}
		visitCounts, bookingCounts, ratings = []float64{0}, []float64{0}, []float64{0}
	}

	var topBookings int
	for _, v := range bookingCounts {
		topBookings += int(v)
	}
	meanRating := reporting.Mean(ratings)

	leader := "No hay datos suficientes."
	city := "Sin datos de ciudades."
	firstRec := "Promueve nuevos atractivos."
	if len(top) > 0 {
		leader = fmt.Sprintf("%s lidera con %d visitas en el período.", top[0].Attr("name"), top[0].Tally[tallyVisits])
		city = fmt.Sprintf("La ciudad más demandada: %s.", top[0].Attr("city"))
		firstRec = fmt.Sprintf("Refuerza la disponibilidad en %s para capitalizar la demanda.", top[0].Attr("name"))
	}

	return &models.ReportContent{
		ReportType: models.ReportPopularity,
		SummaryPoints: []string{
			leader,
			fmt.Sprintf("Reservas generadas por el top 5: %d.", topBookings),
			fmt.Sprintf("Valoración media destacada: %s / 5.", reporting.FormatFixed(meanRating, 2)),
		},
		DetailItems: []string{
			city,
			fmt.Sprintf("Reservas promedio por atractivo: %s.", reporting.FormatFixed(reporting.Mean(bookingCounts), 1)),
			"Los atractivos con mejor valoración concentran más reseñas positivas.",
		},
		Metrics: []models.Metric{
			{Label: "Visitas promedio (Top 5)", Value: reporting.FormatFixed(reporting.Mean(visitCounts), 1), Delta: fmt.Sprintf("%d lugares analizados", places.Len())},
			{Label: "Reservas convertidas", Value: fmt.Sprint(topBookings), Delta: "Esperadas en el período"},
			{Label: "Valoración media", Value: reporting.FormatFixed(meanRating, 2), Delta: "Sobre 5 puntos"},
		},
		Chart: models.Chart{
			Title: "Visitas por atractivo destacado",
			Kind:  models.ChartBar,
			Data:  chart,
		},
		Table: table,
		Recommendations: []string{
			firstRec,
			"Cruza promociones entre los atractivos gastronómicos y culturales mejor valorados.",
			"Incorpora testimonios recientes en las fichas con mayor conversión.",
		},
	}
}

func (b builder) financial(ds *Dataset) *models.ReportContent {
	bookings := ds.Bookings
	confirmed := reporting.Confirmed(bookings)
	revenue := reporting.Sum(confirmed, "total_price")
	avgTicket := reporting.Ratio(revenue, float64(len(confirmed)))
	refunded := len(reporting.Refunded(bookings))
	pending := len(reporting.Pending(bookings))
	field := models.KindBookings.TimestampField()

	chart := b.series([]string{"Periodo", "Ingresos", "Reservas"},
		moneyCells(reporting.SumByWindow(confirmed, field, b.windows, "total_price")),
		intCells(reporting.CountByWindow(bookings, field, b.windows)),
	)

	cities := reporting.GroupBy(confirmed, reporting.GroupSpec{Key: cityKey, Attrs: cityAttrs, SumField: "total_price"})
	ranked := reporting.TopN(cities.List(), reporting.ByCount, 0)

	table := models.Table{
		Title:   "Desempeño por ciudad",
		Columns: []string{"Ciudad", "País", "Ingresos", "Reservas"},
	}
	for _, g := range ranked {
		table.Rows = append(table.Rows, []models.Cell{
			models.TextCell(g.Key),
			models.TextCell(g.Attr("country")),
			models.TextCell(b.money(g.Sum)),
			models.IntCell(g.Count),
		})
	}
	if len(ranked) == 0 {
		table.Rows = [][]models.Cell{{
			models.TextCell("Sin datos"), models.TextCell("-"), models.TextCell(b.money(0)), models.IntCell(0),
		}}
	}

	refundRate := reporting.Percent(refunded, len(bookings))

	firstRec := "Optimiza las campañas de performance para sostener el crecimiento."
	if len(ranked) > 0 {
		firstRec = fmt.Sprintf("Optimiza las campañas de performance en %s para sostener el crecimiento.", ranked[0].Key)
	}

	return &models.ReportContent{
		ReportType: models.ReportFinancial,
		SummaryPoints: []string{
			fmt.Sprintf("Ingresos totales en el período: %s.", b.money(revenue)),
			fmt.Sprintf("Reservas confirmadas: %d de %d totales.", len(confirmed), len(bookings)),
			fmt.Sprintf("Ticket promedio: %s.", b.money(avgTicket)),
		},
		DetailItems: []string{
			fmt.Sprintf("Reservas pendientes: %d.", pending),
			fmt.Sprintf("Cancelaciones/Reembolsos: %d (%s%%).", refunded, reporting.FormatFixed(refundRate, 1)),
			fmt.Sprintf("Ciudades con ingresos: %d.", cities.Len()),
		},
		Metrics: []models.Metric{
			{Label: "Ingresos totales", Value: b.money(revenue), Delta: fmt.Sprintf("%d operaciones", len(confirmed))},
			{Label: "Reservas pagadas", Value: fmt.Sprint(len(confirmed)), Delta: fmt.Sprintf("%d pendientes", pending)},
			{Label: "Ticket promedio", Value: b.money(avgTicket), Delta: fmt.Sprintf("%d reservas", len(confirmed))},
		},
		Chart: models.Chart{
			Title: "Ingresos y reservas por semana",
			Kind:  models.ChartLine,
			Data:  chart,
		},
		Table: table,
		Recommendations: []string{
			firstRec,
			"Revisa las reservas pendientes para evitar cancelaciones.",
			"Introduce ofertas escalonadas para incrementar el ticket medio.",
		},
	}
}

func trendArrow(n int) string {
	if n > 0 {
		return "↗"
	}
	return "→"
}

func (b builder) trends(ds *Dataset) *models.ReportContent {
	visits, bookings, events, newUsers := ds.Visits, ds.Bookings, ds.UsageEvents, ds.NewUsers
	uniqueUsers := reporting.UniqueActors(visits, bookings)

	actions := reporting.GroupBy(events, reporting.GroupSpec{
		Key: func(rec models.Record) string { return rec.String("action_type") },
	})
	topActions := reporting.TopN(actions.List(), reporting.ByCount, 3)
	names := make([]string, 0, 2)
	for i, g := range topActions {
		if i == 2 {
			break
		}
		names = append(names, g.Key)
	}
	frequent := "sin datos"
	if len(names) > 0 {
		frequent = strings.Join(names, ", ")
	}

	chart := b.series([]string{"Periodo", "Visitas", "Reservas", "Nuevos usuarios"},
		intCells(reporting.CountByWindow(visits, models.KindVisits.TimestampField(), b.windows)),
		intCells(reporting.CountByWindow(bookings, models.KindBookings.TimestampField(), b.windows)),
		intCells(reporting.CountByWindow(newUsers, models.KindNewUsers.TimestampField(), b.windows)),
	)

	kpis := []struct {
		label string
		value int
	}{
		{"Visitas totales", len(visits)},
		{"Reservas totales", len(bookings)},
		{"Usuarios únicos", uniqueUsers},
		{"Acciones registradas", len(events)},
		{"Nuevos usuarios", len(newUsers)},
	}
	table := models.Table{
		Title:   "Indicadores clave del período",
		Columns: []string{"Indicador", "Valor", "Tendencia"},
	}
	for _, kpi := range kpis {
		table.Rows = append(table.Rows, []models.Cell{
			models.TextCell(kpi.label),
			models.IntCell(kpi.value),
			models.TextCell(trendArrow(kpi.value)),
		})
	}

	bookingsDelta := "0"
	if len(bookings) > 0 {
		bookingsDelta = fmt.Sprintf("%d confirmadas", len(reporting.Confirmed(bookings)))
	}

	firstRec := "Prioriza el onboarding interactivo para mantener la tasa de activación."
	if len(topActions) > 0 {
		firstRec = fmt.Sprintf("Prioriza el onboarding interactivo en torno a %s para mantener la tasa de activación.", topActions[0].Key)
	}

	return &models.ReportContent{
		ReportType: models.ReportTrends,
		SummaryPoints: []string{
			fmt.Sprintf("Usuarios únicos activos en el período: %d.", uniqueUsers),
			fmt.Sprintf("Total de interacciones registradas: %d.", len(events)),
			fmt.Sprintf("Acciones más frecuentes: %s.", frequent),
		},
		DetailItems: []string{
			fmt.Sprintf("Visitas registradas: %d.", len(visits)),
			fmt.Sprintf("Reservas procesadas: %d.", len(bookings)),
			fmt.Sprintf("Tipos de acciones diferentes: %d.", actions.Len()),
			fmt.Sprintf("Nuevos usuarios registrados: %d.", len(newUsers)),
		},
		Metrics: []models.Metric{
			{Label: "Usuarios únicos", Value: fmt.Sprint(uniqueUsers), Delta: fmt.Sprintf("%d visitas", len(visits))},
			{Label: "Interacciones", Value: fmt.Sprint(len(events)), Delta: fmt.Sprintf("%d tipos", actions.Len())},
			{Label: "Reservas", Value: fmt.Sprint(len(bookings)), Delta: bookingsDelta},
			{Label: "Nuevos usuarios", Value: fmt.Sprint(len(newUsers)), Delta: fmt.Sprintf("%d semanas", len(b.windows))},
		},
		Chart: models.Chart{
			Title: "Evolución de visitas y reservas",
			Kind:  models.ChartLine,
			Data:  chart,
		},
		Table: table,
		Recommendations: []string{
			firstRec,
			"Refuerza las notificaciones segmentadas con base en intereses recientes.",
			"Aumenta el catálogo de experiencias para retener usuarios.",
		},
	}
}
