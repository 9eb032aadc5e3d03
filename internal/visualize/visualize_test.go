package visualize

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

type recordingOpener struct {
	paths []string
	err   error
}

func (o *recordingOpener) Open(_ context.Context, path string) error {
	o.paths = append(o.paths, path)
	return o.err
}

type stubGeocoder struct {
	calls int
	place string
	err   error
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	g.calls++
	return domain.GeocodingResult{Lat: lat, Lon: lon, FormattedAddress: g.place}, g.err
}

func testView() domain.FilteredView {
	return domain.FilteredView{
		Year: 2020,
		Records: []domain.Record{
			{Time: time.Date(2020, 1, 5, 15, 34, 0, 0, time.UTC), Lat: -12.5, Lon: -76.2, Magnitude: 4.5, Depth: 33},
			{Time: time.Date(2020, 3, 9, 2, 10, 0, 0, time.UTC), Lat: -15.1, Lon: -70.3, Magnitude: 5.1, Depth: 120},
		},
	}
}

func newTestVisualizer(t *testing.T, opener Opener, geocoder domain.Geocoder) (*Visualizer, *Panel, string) {
	t.Helper()
	dir := t.TempDir()
	panel := NewPanel()
	v := New(Options{OutputDir: dir, CenterLat: -9.19, CenterLon: -75.0152, Zoom: 5},
		opener, geocoder, panel, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return v, panel, dir
}

func TestPopup(t *testing.T) {
	r := domain.Record{Time: time.Date(2020, 1, 5, 15, 34, 0, 0, time.UTC), Lat: -12.5, Lon: -76.2, Magnitude: 4.5, Depth: 33}

	assert.Equal(t,
		"<b>Sismo</b><br>Latitud: -12.5<br>Longitud: -76.2<br>Magnitud: 4.5<br>Fecha: 2020-01-05<br>",
		Popup(r, ""))
	assert.Equal(t,
		"<b>Sismo</b><br>Latitud: -12.5<br>Longitud: -76.2<br>Magnitud: 4.5<br>Fecha: 2020-01-05<br>Lugar: Ica &amp; Pisco<br>",
		Popup(r, "Ica & Pisco"))
}

func TestRenderClusterMap(t *testing.T) {
	opener := &recordingOpener{}
	v, _, dir := newTestVisualizer(t, opener, nil)

	art, err := v.Render(context.Background(), domain.KindClusterMap, testView())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Mapa_Clusteres_2020.html"), art.Path)
	assert.Equal(t, []string{art.Path}, opener.paths)

	content, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	html := string(content)
	assert.Equal(t, 2, strings.Count(html, `"popup":`), "one marker per record")
	assert.Contains(t, html, "markerClusterGroup")
	assert.Contains(t, html, "Fecha: 2020-03-09")
}

func TestRenderClusterMap_WithPlaces(t *testing.T) {
	geo := &stubGeocoder{place: "Lima, Perú"}
	v, _, _ := newTestVisualizer(t, &recordingOpener{}, geo)

	path, err := v.RenderClusterMap(context.Background(), testView())
	require.NoError(t, err)
	assert.Equal(t, 2, geo.calls)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "Lugar: Lima, Perú"))
}

type nearestPlaceGeocoder struct {
	place domain.GeocodingResult
}

func (g nearestPlaceGeocoder) ReverseGeocode(context.Context, float64, float64) (domain.GeocodingResult, error) {
	return g.place, nil
}

func TestRenderClusterMap_DescribesEpicentreFromPlace(t *testing.T) {
	geo := nearestPlaceGeocoder{place: domain.GeocodingResult{
		Lat: -12.0464, Lon: -77.0428, PlaceName: "Lima", Region: "Lima", FormattedAddress: "Lima, Lima, Perú",
	}}
	v, _, _ := newTestVisualizer(t, &recordingOpener{}, geo)

	path, err := v.RenderClusterMap(context.Background(), testView())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Lugar: a 105 km al SE de Lima")
}

func TestRenderClusterMap_GeocodeFailureDegrades(t *testing.T) {
	geo := &stubGeocoder{err: errors.New("unreachable")}
	v, _, _ := newTestVisualizer(t, &recordingOpener{}, geo)

	path, err := v.RenderClusterMap(context.Background(), testView())
	require.NoError(t, err)
	assert.Equal(t, 1, geo.calls, "stops geocoding after the first failure")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Lugar:")
	assert.Equal(t, 2, strings.Count(string(content), `"popup":`))
}

func TestRenderHeatMap(t *testing.T) {
	opener := &recordingOpener{}
	v, _, dir := newTestVisualizer(t, opener, nil)

	art, err := v.Render(context.Background(), domain.KindHeatMap, testView())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Mapa_Calor_2020.html"), art.Path)
	assert.Len(t, opener.paths, 1)

	content, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[[-12.5,-76.2],[-15.1,-70.3]]")
}

func TestRenderMap_OpenerFailureIsNotFatal(t *testing.T) {
	v, _, _ := newTestVisualizer(t, &recordingOpener{err: errors.New("no display")}, nil)

	path, err := v.RenderHeatMap(context.Background(), testView())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRenderHistogram_ReplacesPanel(t *testing.T) {
	v, panel, dir := newTestVisualizer(t, &recordingOpener{}, nil)

	_, _, ok := panel.Snapshot()
	assert.False(t, ok)

	art, err := v.Render(context.Background(), domain.KindMagnitudeHistogram, testView())
	require.NoError(t, err)
	assert.Empty(t, art.Path)

	img, title, ok := panel.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Histograma de Magnitud de Sismos en 2020", title)
	_, err = png.Decode(bytes.NewReader(img))
	require.NoError(t, err)

	_, err = v.Render(context.Background(), domain.KindDepthHistogram, testView())
	require.NoError(t, err)
	_, title, _ = panel.Snapshot()
	assert.Equal(t, "Histograma de Profundidad de Sismos en 2020", title)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "panel renders write no files")
}

func TestRenderHistogram_SingleRecord(t *testing.T) {
	v, panel, _ := newTestVisualizer(t, &recordingOpener{}, nil)
	view := testView()
	view.Records = view.Records[:1]

	require.NoError(t, v.RenderHistogram(view, domain.FieldMagnitude))
	_, _, ok := panel.Snapshot()
	assert.True(t, ok)
}

func TestWriteHistogram(t *testing.T) {
	dir := t.TempDir()
	metrics := observability.NewMetricsForTesting()
	v := New(Options{OutputDir: dir, CenterLat: -9.19, CenterLon: -75.0152, Zoom: 5},
		&recordingOpener{}, nil, NewPanel(), metrics,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	path, err := v.WriteHistogram(domain.KindDepthHistogram, testView())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Histograma_Profundidad_2020.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("depth", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RenderDuration))
}

func TestWriteHistogram_MapKind(t *testing.T) {
	v, _, dir := newTestVisualizer(t, &recordingOpener{}, nil)

	_, err := v.WriteHistogram(domain.KindHeatMap, testView())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a histogram")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRender_UnknownKind(t *testing.T) {
	v, _, _ := newTestVisualizer(t, &recordingOpener{}, nil)

	_, err := v.Render(context.Background(), domain.Kind(42), testView())
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestRenderClusterMap_CancelledContext(t *testing.T) {
	v, _, _ := newTestVisualizer(t, &recordingOpener{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.RenderClusterMap(ctx, testView())
	assert.ErrorIs(t, err, context.Canceled)
}
