package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock RecordRepository
type mockRecordRepository struct {
	repository.RecordRepository
	mockGetRecords func(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error)
	mockGetActor   func(ctx context.Context, actorID string) (*models.ActorRef, error)
}

func (m *mockRecordRepository) GetRecords(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error) {
	if m.mockGetRecords != nil {
		return m.mockGetRecords(ctx, kind, start, end)
	}
	return nil, nil
}

func (m *mockRecordRepository) GetActor(ctx context.Context, actorID string) (*models.ActorRef, error) {
	if m.mockGetActor != nil {
		return m.mockGetActor(ctx, actorID)
	}
	return nil, repository.ErrNotFound
}

func fixtureRepository(data map[models.RecordKind][]models.Record) *mockRecordRepository {
	return &mockRecordRepository{
		mockGetRecords: func(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error) {
			return data[kind], nil
		},
	}
}

var (
	madrid    = &models.LocationRef{ID: "c1", Name: "Madrid", Country: "España"}
	barcelona = &models.LocationRef{ID: "c2", Name: "Barcelona", Country: "España"}
	prado     = &models.PlaceRef{ID: "p1", Name: "Museo del Prado", Category: "museo", LocationID: "c1", Location: madrid}
	retiro    = &models.PlaceRef{ID: "p2", Name: "Parque del Retiro", Category: "parque", LocationID: "c1", Location: madrid}
	sagrada   = &models.PlaceRef{ID: "p3", Name: "Sagrada Familia", Category: "monumento", LocationID: "c2", Location: barcelona}
)

func day(d int) string {
	return time.Date(2026, time.March, d, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func visit(id, actor string, place *models.PlaceRef, d int, rating any) models.Record {
	return models.Record{
		Kind:    models.KindVisits,
		ID:      id,
		ActorID: actor,
		Place:   place,
		Fields:  map[string]any{"visit_date": day(d), "rating": rating},
	}
}

func booking(id, actor string, place *models.PlaceRef, d int, price any, status string) models.Record {
	return models.Record{
		Kind:    models.KindBookings,
		ID:      id,
		ActorID: actor,
		Place:   place,
		Fields:  map[string]any{"booking_date": day(d), "total_price": price, "status": status},
	}
}

func fixtureData() map[models.RecordKind][]models.Record {
	return map[models.RecordKind][]models.Record{
		models.KindVisits: {
			visit("v1", "u1", prado, 2, 5),
			visit("v2", "u2", prado, 3, 4),
			visit("v3", "u1", sagrada, 4, 4.5),
			visit("v4", "u3", sagrada, 10, nil),
			visit("v5", "u2", retiro, 11, "n/a"),
		},
		models.KindBookings: {
			booking("b1", "u1", prado, 2, 50, models.BookingStatusConfirmed),
			booking("b2", "u2", prado, 3, 30, models.BookingStatusPending),
			booking("b3", "u3", sagrada, 10, "120.5", models.BookingStatusCompleted),
			booking("b4", "u1", sagrada, 11, nil, models.BookingStatusCancelled),
		},
		models.KindUsageEvents: {
			{Kind: models.KindUsageEvents, ID: "e1", ActorID: "u1", Fields: map[string]any{"timestamp": day(2), "action_type": "search"}},
			{Kind: models.KindUsageEvents, ID: "e2", ActorID: "u2", Fields: map[string]any{"timestamp": day(3), "action_type": "audio_play"}},
			{Kind: models.KindUsageEvents, ID: "e3", ActorID: "u2", Fields: map[string]any{"timestamp": day(4), "action_type": "audio_play"}},
		},
		models.KindAchievements: {
			{Kind: models.KindAchievements, ID: "a1", ActorID: "u1", Fields: map[string]any{"earned_at": day(5), "points": 50}},
		},
		models.KindNewUsers: {
			{Kind: models.KindNewUsers, ID: "u3", ActorID: "u3", Fields: map[string]any{"created_at": day(9)}},
		},
	}
}

func params(reportType models.ReportType, privileged bool) models.ReportParams {
	return models.ReportParams{
		Type:         reportType,
		Start:        time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		CallerID:     "u1",
		IsPrivileged: privileged,
	}
}

func TestReportServiceGeneralSummary(t *testing.T) {
	service := NewReportService(fixtureRepository(fixtureData()), ReportSettings{})

	content, err := service.Build(context.Background(), params(models.ReportGeneralSummary, true))
	require.NoError(t, err)

	assert.False(t, content.Degraded)
	assert.Equal(t, []string{
		"Visitas registradas en el período: 5.",
		"Reservas totales: 4 (confirmadas: 2).",
		"Ingresos estimados: € 170,50.",
	}, content.SummaryPoints)
	assert.Contains(t, content.DetailItems, "Usuarios únicos impactados: 3.")
	assert.Contains(t, content.DetailItems, "Reservas pendientes: 1.")
	assert.Equal(t, "Refuerza campañas en Madrid para capitalizar sus 3 visitas.", content.Recommendations[0])

	require.Len(t, content.Chart.Data.Rows, 2)
	assert.Equal(t, "01/03 - 07/03", content.Chart.Data.Rows[0][0].String())
	assert.Equal(t, int64(3), content.Chart.Data.Rows[0][1].Value())
	assert.Equal(t, int64(2), content.Chart.Data.Rows[1][1].Value())

	require.Len(t, content.Table.Rows, 2)
	assert.Equal(t, "Madrid", content.Table.Rows[0][0].String())
	assert.Equal(t, "3", content.Table.Rows[0][2].String())
	assert.Equal(t, "2", content.Table.Rows[0][3].String())
}

func TestReportServiceLocationFilter(t *testing.T) {
	service := NewReportService(fixtureRepository(fixtureData()), ReportSettings{})
	p := params(models.ReportGeneralSummary, true)
	p.LocationID = "c2"

	content, err := service.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "Visitas registradas en el período: 2.", content.SummaryPoints[0])
	require.Len(t, content.Table.Rows, 1)
	assert.Equal(t, "Barcelona", content.Table.Rows[0][0].String())
}

func TestReportServicePopularityIsDeterministic(t *testing.T) {
	service := NewReportService(fixtureRepository(fixtureData()), ReportSettings{})
	p := params(models.ReportPopularity, true)

	first, err := service.Build(context.Background(), p)
	require.NoError(t, err)
	second, err := service.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, models.ChartBar, first.Chart.Kind)
	// Prado and Sagrada tie on visits; Prado was seen first
	assert.Equal(t, "Museo del Prado lidera con 2 visitas en el período.", first.SummaryPoints[0])
	assert.Equal(t, "Museo del Prado", first.Table.Rows[0][0].String())
	assert.Equal(t, "4.50", first.Table.Rows[0][4].String())
	assert.Equal(t, "Refuerza la disponibilidad en Museo del Prado para capitalizar la demanda.", first.Recommendations[0])
}

func TestReportServiceFinancial(t *testing.T) {
	service := NewReportService(fixtureRepository(fixtureData()), ReportSettings{})

	content, err := service.Build(context.Background(), params(models.ReportFinancial, true))
	require.NoError(t, err)

	assert.Equal(t, "Ingresos totales en el período: € 170,50.", content.SummaryPoints[0])
	assert.Equal(t, "Reservas confirmadas: 2 de 4 totales.", content.SummaryPoints[1])
	assert.Equal(t, "Ticket promedio: € 85,25.", content.SummaryPoints[2])
	assert.Equal(t, "Cancelaciones/Reembolsos: 1 (25.0%).", content.DetailItems[1])

	require.Len(t, content.Chart.Data.Rows, 2)
	assert.Equal(t, "50.00", content.Chart.Data.Rows[0][1].String())
	assert.Equal(t, "120.50", content.Chart.Data.Rows[1][1].String())
	assert.Equal(t, "€ 120,50", content.Table.Rows[1][2].String())
}

func TestReportServiceNonFiniteValues(t *testing.T) {
	data := fixtureData()
	data[models.KindBookings] = append(data[models.KindBookings],
		booking("b5", "u2", prado, 4, "NaN", models.BookingStatusConfirmed),
		booking("b6", "u3", retiro, 5, "Infinity", models.BookingStatusConfirmed),
		booking("b7", "u1", sagrada, 6, math.NaN(), models.BookingStatusCompleted),
	)
	data[models.KindVisits] = append(data[models.KindVisits], visit("v6", "u1", prado, 6, "-Inf"))
	service := NewReportService(fixtureRepository(data), ReportSettings{})

	for _, reportType := range models.ReportTypes {
		assert.NotPanics(t, func() {
			_, err := service.Build(context.Background(), params(reportType, true))
			assert.NoError(t, err, reportType)
		}, reportType)
	}

	content, err := service.Build(context.Background(), params(models.ReportFinancial, true))
	require.NoError(t, err)
	assert.Equal(t, "Ingresos totales en el período: € 170,50.", content.SummaryPoints[0])
}

func TestReportServiceOverflowingSums(t *testing.T) {
	data := fixtureData()
	data[models.KindBookings] = []models.Record{
		booking("b1", "u1", prado, 2, 1e308, models.BookingStatusConfirmed),
		booking("b2", "u2", prado, 3, "1e308", models.BookingStatusConfirmed),
	}
	service := NewReportService(fixtureRepository(data), ReportSettings{})

	for _, reportType := range []models.ReportType{models.ReportGeneralSummary, models.ReportFinancial, models.ReportPopularity} {
		assert.NotPanics(t, func() {
			_, err := service.Build(context.Background(), params(reportType, true))
			assert.NoError(t, err, reportType)
		}, reportType)
	}
}

func TestReportServiceFinancialUnauthorized(t *testing.T) {
	repo := &mockRecordRepository{
		mockGetRecords: func(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error) {
			t.Fatal("unauthorized build must not query the data source")
			return nil, nil
		},
	}
	service := NewReportService(repo, ReportSettings{})

	content, err := service.Build(context.Background(), params(models.ReportFinancial, false))
	require.NoError(t, err)

	assert.True(t, content.Degraded)
	assert.Equal(t, []string{MsgAdminOnly}, content.SummaryPoints)
	assert.Empty(t, content.Metrics)
	assert.True(t, content.Table.IsEmpty())
	assert.True(t, content.Chart.IsEmpty())
	assert.Empty(t, content.Recommendations)
}

func TestReportServiceUnknownType(t *testing.T) {
	service := NewReportService(fixtureRepository(nil), ReportSettings{})

	content, err := service.Build(context.Background(), params(models.ReportType("forecast"), true))
	require.NoError(t, err)
	assert.True(t, content.Degraded)
	assert.Equal(t, []string{MsgUnknownReportType}, content.SummaryPoints)
}

func TestReportServiceUserActivity(t *testing.T) {
	repo := fixtureRepository(fixtureData())
	repo.mockGetActor = func(ctx context.Context, actorID string) (*models.ActorRef, error) {
		return &models.ActorRef{ID: actorID, Email: "ana@example.com", TotalPoints: 340}, nil
	}
	service := NewReportService(repo, ReportSettings{})

	content, err := service.Build(context.Background(), params(models.ReportUserActivity, false))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Visitas registradas en el período: 2.",
		"Reservas confirmadas: 1.",
		"Puntos acumulados: 340.",
		"Última visita: Sagrada Familia (04/03/2026).",
	}, content.SummaryPoints)
	assert.Equal(t, "Correo asociado: ana@example.com", content.DetailItems[0])
	assert.Equal(t, "Logros obtenidos en el período: 1", content.DetailItems[1])
	assert.Equal(t, "2 POIs únicos", content.Metrics[0].Delta)
	assert.Contains(t, content.Recommendations[0], "museo")
}

func TestReportServiceUserActivityScopedToCaller(t *testing.T) {
	service := NewReportService(fixtureRepository(fixtureData()), ReportSettings{})
	p := params(models.ReportUserActivity, false)
	p.CallerID = ""

	content, err := service.Build(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, content.Degraded)
	assert.Equal(t, []string{MsgNoValidUser}, content.SummaryPoints)
	assert.Len(t, content.Chart.Data.Rows, 2)

	p.ActorID = "u3"
	content, err = service.Build(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, content.Degraded)
	assert.Equal(t, "Visitas registradas en el período: 1.", content.SummaryPoints[0])
	assert.Equal(t, "Correo asociado: sin correo", content.DetailItems[0])
}

func TestReportServiceTrends(t *testing.T) {
	service := NewReportService(fixtureRepository(fixtureData()), ReportSettings{})

	content, err := service.Build(context.Background(), params(models.ReportTrends, true))
	require.NoError(t, err)

	assert.Equal(t, "Acciones más frecuentes: audio_play, search.", content.SummaryPoints[2])
	assert.Equal(t, "Nuevos usuarios registrados: 1.", content.DetailItems[3])
	require.Len(t, content.Table.Rows, 5)
	assert.Equal(t, "↗", content.Table.Rows[0][2].String())
	assert.Contains(t, content.Recommendations[0], "audio_play")
}

func TestReportServiceDataUnavailable(t *testing.T) {
	repo := &mockRecordRepository{
		mockGetRecords: func(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error) {
			if kind == models.KindBookings {
				return nil, errors.New("connection refused")
			}
			return nil, nil
		},
	}
	service := NewReportService(repo, ReportSettings{})

	_, err := service.Build(context.Background(), params(models.ReportGeneralSummary, true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)

	var dataErr *DataUnavailableError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "get_records(bookings)", dataErr.Op)
}

func TestReportServiceCatalog(t *testing.T) {
	service := NewReportService(fixtureRepository(nil), ReportSettings{})

	assert.Len(t, service.Catalog(true), 5)
	assert.Equal(t, []models.ReportType{models.ReportUserActivity}, service.Catalog(false))
}
