package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
	"github.com/couchcryptid/quake-report/internal/pipeline"
	"github.com/couchcryptid/quake-report/internal/store"
	"github.com/couchcryptid/quake-report/internal/visualize"
)

// --- mocks ---

type mapLoader map[string]domain.Dataset

func (m mapLoader) Load(path string) (domain.Dataset, error) {
	ds, ok := m[path]
	if !ok {
		return nil, errors.New("open file: no such file")
	}
	return ds, nil
}

type mockRenderer struct {
	calls []domain.Kind
	views []domain.FilteredView
	path  string
	err   error
}

func (m *mockRenderer) Render(_ context.Context, kind domain.Kind, view domain.FilteredView) (visualize.Artifact, error) {
	m.calls = append(m.calls, kind)
	m.views = append(m.views, view)
	if m.err != nil {
		return visualize.Artifact{}, m.err
	}
	return visualize.Artifact{Kind: kind, Path: m.path}, nil
}

type mockReports struct {
	views []domain.FilteredView
	err   error
}

func (m *mockReports) Generate(_ context.Context, view domain.FilteredView) (string, error) {
	m.views = append(m.views, view)
	if m.err != nil {
		return "", m.err
	}
	return "/tmp/out/Reporte_Sismos_2020.pdf", nil
}

type mockExporter struct {
	views []domain.FilteredView
	err   error
}

func (m *mockExporter) Publish(_ context.Context, view domain.FilteredView) (int, error) {
	m.views = append(m.views, view)
	return view.Len(), m.err
}

func rec(year int, month time.Month, mag float64) domain.Record {
	return domain.Record{Time: time.Date(year, month, 1, 12, 0, 0, 0, time.UTC), Lat: -12, Lon: -77, Magnitude: mag, Depth: 30}
}

var catalogue = domain.Dataset{rec(2020, 1, 4.1), rec(2020, 6, 4.7), rec(2021, 2, 5.0)}

type fixture struct {
	p        *pipeline.Pipeline
	renderer *mockRenderer
	reports  *mockReports
	exporter *mockExporter
}

func newFixture(t *testing.T, withExporter bool) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := mapLoader{
		"sismos.xlsx": catalogue,
		"vacio.xlsx":  domain.Dataset{},
	}
	st := store.New(loader, logger, observability.NewMetricsForTesting())
	f := fixture{renderer: &mockRenderer{}, reports: &mockReports{}}
	var exp pipeline.Exporter
	if withExporter {
		f.exporter = &mockExporter{}
		exp = f.exporter
	}
	f.p = pipeline.New(st, f.renderer, f.reports, exp, logger)
	return f
}

// --- tests ---

func TestPipeline_InitialStatus(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, "Estado: Sin datos cargados", f.p.Status())
	assert.Error(t, f.p.CheckReadiness(context.Background()))
}

func TestPipeline_LoadData(t *testing.T) {
	f := newFixture(t, false)

	out, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	want := pipeline.Outcome{
		Severity: pipeline.SeverityInfo,
		Title:    "Carga de Datos",
		Message:  "Datos cargados correctamente.",
		Records:  3,
		Years:    []int{2020, 2021},
		Status:   "Datos cargados: 3 registros.",
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Datos cargados: 3 registros.", f.p.Status())
	assert.NoError(t, f.p.CheckReadiness(context.Background()))
	assert.Equal(t, []int{2020, 2021}, f.p.Years())
}

func TestPipeline_LoadData_NoFile(t *testing.T) {
	f := newFixture(t, false)

	out, err := f.p.LoadData("  ")
	require.NoError(t, err)
	assert.Equal(t, pipeline.SeverityWarning, out.Severity)
	assert.Equal(t, "Carga de Datos", out.Title)
	assert.Equal(t, "No se seleccionó ningún archivo.", out.Message)
}

func TestPipeline_LoadData_Failure(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"missing file", "nada.xlsx", "No se pudieron cargar los datos: open file: no such file"},
		{"empty file", "vacio.xlsx", "No se pudieron cargar los datos: file contains no data rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)

			out, err := f.p.LoadData(tt.path)
			var le *domain.LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, pipeline.SeverityError, out.Severity)
			assert.Equal(t, "Error al Cargar Datos", out.Title)
			assert.Equal(t, tt.message, out.Message)
			assert.Equal(t, "Estado: Sin datos cargados", out.Status, "status unchanged")
		})
	}
}

func TestPipeline_FailedReloadKeepsPrevious(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	_, err = f.p.LoadData("nada.xlsx")
	require.Error(t, err)

	out, err := f.p.ApplyFilters(context.Background(), 2020, domain.KindHeatMap)
	require.NoError(t, err)
	assert.Equal(t, pipeline.SeverityInfo, out.Severity)
	assert.Equal(t, "Datos cargados: 3 registros.", f.p.Status())
}

func TestPipeline_ApplyFilters(t *testing.T) {
	f := newFixture(t, false)
	f.renderer.path = "/tmp/out/Mapa_Clusteres_2020.html"
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.ApplyFilters(context.Background(), 2020, domain.KindClusterMap)
	require.NoError(t, err)
	assert.Equal(t, pipeline.SeverityInfo, out.Severity)
	assert.Equal(t, "/tmp/out/Mapa_Clusteres_2020.html", out.Artifact)
	assert.Equal(t, "Mapa con Clústeres guardado en Mapa_Clusteres_2020.html.", out.Message)
	assert.Equal(t, 2, out.Records)

	require.Len(t, f.renderer.views, 1)
	assert.Equal(t, 2020, f.renderer.views[0].Year)
	assert.Len(t, f.renderer.views[0].Records, 2)
}

func TestPipeline_ApplyFilters_Histogram(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.ApplyFilters(context.Background(), 2021, domain.KindDepthHistogram)
	require.NoError(t, err)
	assert.Empty(t, out.Artifact)
	assert.Equal(t, "Distribución de Profundidades del año 2021 generado con 1 registros.", out.Message)
}

func TestPipeline_ApplyFilters_EmptyYear(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.ApplyFilters(context.Background(), 2022, domain.KindClusterMap)
	require.NoError(t, err, "an empty year is a warning, not a failure")
	assert.Equal(t, pipeline.SeverityWarning, out.Severity)
	assert.Equal(t, "Datos Faltantes", out.Title)
	assert.Equal(t, "No hay registros de sismos para el año 2022.", out.Message)
	assert.Empty(t, f.renderer.calls, "nothing rendered")
}

func TestPipeline_ApplyFilters_BeforeLoad(t *testing.T) {
	f := newFixture(t, false)

	out, err := f.p.ApplyFilters(context.Background(), 2020, domain.KindHeatMap)
	require.NoError(t, err)
	assert.Equal(t, pipeline.SeverityWarning, out.Severity)
	assert.Equal(t, "Datos Faltantes", out.Title)
	assert.Empty(t, f.renderer.calls)
}

func TestPipeline_ApplyFilters_RenderError(t *testing.T) {
	f := newFixture(t, false)
	f.renderer.err = errors.New("disk full")
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.ApplyFilters(context.Background(), 2020, domain.KindHeatMap)
	require.Error(t, err)
	assert.Equal(t, pipeline.SeverityError, out.Severity)
	assert.Equal(t, "No se pudo generar la visualización: disk full", out.Message)
}

func TestPipeline_GenerateReport(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.GenerateReport(context.Background(), 2020)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out/Reporte_Sismos_2020.pdf", out.Artifact)
	assert.Equal(t, "Reporte PDF generado: Reporte_Sismos_2020.pdf", f.p.Status())
	assert.Equal(t, f.p.Status(), out.Status)
	require.Len(t, f.reports.views, 1)
	assert.Equal(t, 2, f.reports.views[0].Len())
}

func TestPipeline_GenerateReport_EmptyYear(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.GenerateReport(context.Background(), 1999)
	require.NoError(t, err)
	assert.Equal(t, "No hay registros de sismos para el año 1999.", out.Message)
	assert.Empty(t, f.reports.views)
	assert.Equal(t, "Datos cargados: 3 registros.", f.p.Status())
}

func TestPipeline_GenerateReport_Error(t *testing.T) {
	f := newFixture(t, false)
	f.reports.err = errors.New("write pdf: permission denied")
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.GenerateReport(context.Background(), 2020)
	require.Error(t, err)
	assert.Equal(t, "Error al Generar Reporte", out.Title)
	assert.Equal(t, "Datos cargados: 3 registros.", f.p.Status())
}

func TestPipeline_Export(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.Export(context.Background(), 2021)
	require.NoError(t, err)
	assert.Equal(t, "Se exportaron 1 registros del año 2021.", out.Message)
	require.Len(t, f.exporter.views, 1)
	assert.Equal(t, 2021, f.exporter.views[0].Year)
}

func TestPipeline_Export_Disabled(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.Export(context.Background(), 2021)
	require.NoError(t, err)
	assert.Equal(t, pipeline.SeverityWarning, out.Severity)
}

func TestPipeline_Export_Error(t *testing.T) {
	f := newFixture(t, true)
	f.exporter.err = errors.New("broker unreachable")
	_, err := f.p.LoadData("sismos.xlsx")
	require.NoError(t, err)

	out, err := f.p.Export(context.Background(), 2020)
	require.Error(t, err)
	assert.Equal(t, "Error al Exportar", out.Title)
}
