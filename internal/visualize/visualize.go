// Package visualize turns a year's records into maps and histograms.
package visualize

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/quake-report/internal/adapter/leaflet"
	"github.com/couchcryptid/quake-report/internal/chart"
	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

// Opener hands a written file to an external viewer.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Options configures where artifacts go and how maps are framed.
type Options struct {
	OutputDir string
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// Artifact describes the result of a render. Path is empty for histograms,
// which are drawn into the Panel instead of a file.
type Artifact struct {
	Kind domain.Kind
	Path string
}

// Visualizer renders FilteredViews. The geocoder is optional.
type Visualizer struct {
	opts     Options
	opener   Opener
	geocoder domain.Geocoder
	panel    *Panel
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New creates a Visualizer. Pass a nil geocoder to disable place names.
func New(opts Options, opener Opener, geocoder domain.Geocoder, panel *Panel, metrics *observability.Metrics, logger *slog.Logger) *Visualizer {
	return &Visualizer{
		opts:     opts,
		opener:   opener,
		geocoder: geocoder,
		panel:    panel,
		metrics:  metrics,
		logger:   logger,
	}
}

// Render dispatches on kind.
func (v *Visualizer) Render(ctx context.Context, kind domain.Kind, view domain.FilteredView) (Artifact, error) {
	start := time.Now()
	art := Artifact{Kind: kind}
	var err error

	switch kind {
	case domain.KindClusterMap:
		art.Path, err = v.RenderClusterMap(ctx, view)
	case domain.KindHeatMap:
		art.Path, err = v.RenderHeatMap(ctx, view)
	case domain.KindMagnitudeHistogram:
		err = v.RenderHistogram(view, domain.FieldMagnitude)
	case domain.KindDepthHistogram:
		err = v.RenderHistogram(view, domain.FieldDepth)
	default:
		return Artifact{}, fmt.Errorf("render: %w: %d", domain.ErrUnknownKind, int(kind))
	}

	v.observe(kind, start, err)
	if err != nil {
		return Artifact{}, err
	}
	return art, nil
}

func (v *Visualizer) observe(kind domain.Kind, start time.Time, err error) {
	v.metrics.RenderDuration.WithLabelValues(kind.Key()).Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	v.metrics.Renders.WithLabelValues(kind.Key(), outcome).Inc()
}

// RenderClusterMap writes Mapa_Clusteres_<year>.html with one popup marker
// per record and opens it.
func (v *Visualizer) RenderClusterMap(ctx context.Context, view domain.FilteredView) (string, error) {
	markers := make([]leaflet.Marker, 0, view.Len())
	geocode := v.geocoder != nil
	for _, r := range view.Records {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("render cluster map: %w", err)
		}
		var place string
		if geocode {
			res, err := v.geocoder.ReverseGeocode(ctx, r.Lat, r.Lon)
			if err != nil {
				// One failure usually means the provider is unreachable; skip
				// the remaining lookups for this map.
				v.logger.Warn("reverse geocode failed, continuing without places", "lat", r.Lat, "lon", r.Lon, "error", err)
				geocode = false
			} else {
				place = res.Relative(r.Lat, r.Lon)
			}
		}
		markers = append(markers, leaflet.Marker{
			Lat:   r.Lat,
			Lon:   r.Lon,
			Popup: Popup(r, place),
		})
	}

	name := fmt.Sprintf("Mapa_Clusteres_%d.html", view.Year)
	page := v.basePage(name, leaflet.LayerCluster)
	page.Markers = markers
	return v.writeMap(ctx, name, page)
}

// RenderHeatMap writes Mapa_Calor_<year>.html with an unweighted heat layer
// over the epicentres and opens it.
func (v *Visualizer) RenderHeatMap(ctx context.Context, view domain.FilteredView) (string, error) {
	points := make([][2]float64, 0, view.Len())
	for _, r := range view.Records {
		points = append(points, [2]float64{r.Lat, r.Lon})
	}

	name := fmt.Sprintf("Mapa_Calor_%d.html", view.Year)
	page := v.basePage(name, leaflet.LayerHeat)
	page.Points = points
	return v.writeMap(ctx, name, page)
}

// RenderHistogram draws the field's histogram into the Panel, replacing
// whatever was shown before.
func (v *Visualizer) RenderHistogram(view domain.FilteredView, field domain.Field) error {
	png, title, err := v.histogramPNG(view, field)
	if err != nil {
		return err
	}
	v.panel.Set(png, title)
	v.logger.Info("histogram drawn", "field", field.Name(), "year", view.Year, "records", view.Len())
	return nil
}

// WriteHistogram writes a histogram kind to Histograma_<Field>_<year>.png
// in the output directory instead of the panel.
func (v *Visualizer) WriteHistogram(kind domain.Kind, view domain.FilteredView) (string, error) {
	field, ok := kind.Field()
	if !ok {
		return "", fmt.Errorf("write histogram: %s is not a histogram", kind)
	}
	start := time.Now()
	path, err := v.writeHistogram(view, field)
	v.observe(kind, start, err)
	return path, err
}

func (v *Visualizer) writeHistogram(view domain.FilteredView, field domain.Field) (string, error) {
	png, _, err := v.histogramPNG(view, field)
	if err != nil {
		return "", err
	}
	path := filepath.Join(v.opts.OutputDir, fmt.Sprintf("Histograma_%s_%d.png", field.Name(), view.Year))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write histogram: %w", err)
	}
	v.logger.Info("histogram written", "path", path)
	return path, nil
}

func (v *Visualizer) histogramPNG(view domain.FilteredView, field domain.Field) ([]byte, string, error) {
	title := fmt.Sprintf("Histograma de %s de Sismos en %d", field.Name(), view.Year)
	p, err := chart.Histogram(field.Values(view.Records), title, field.Name())
	if err != nil {
		return nil, "", fmt.Errorf("build histogram: %w", err)
	}
	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, p, chart.SingleWidth, chart.SingleHeight); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), title, nil
}

func (v *Visualizer) basePage(title string, layer leaflet.Layer) leaflet.Page {
	return leaflet.Page{
		Title:     strings.TrimSuffix(title, ".html"),
		CenterLat: v.opts.CenterLat,
		CenterLon: v.opts.CenterLon,
		Zoom:      v.opts.Zoom,
		Layer:     layer,
	}
}

func (v *Visualizer) writeMap(ctx context.Context, name string, page leaflet.Page) (string, error) {
	path := filepath.Join(v.opts.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create map file: %w", err)
	}
	if err := leaflet.Render(f, page); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close map file: %w", err)
	}
	v.logger.Info("map written", "path", path, "markers", len(page.Markers), "points", len(page.Points))

	if err := v.opener.Open(ctx, path); err != nil {
		v.logger.Warn("could not open map", "path", path, "error", err)
	}
	return path, nil
}

// Popup builds the marker popup HTML for r. place is appended as a Lugar
// line when non-empty.
func Popup(r domain.Record, place string) string {
	var b strings.Builder
	b.WriteString("<b>Sismo</b><br>")
	fmt.Fprintf(&b, "Latitud: %s<br>", domain.FormatNumber(r.Lat))
	fmt.Fprintf(&b, "Longitud: %s<br>", domain.FormatNumber(r.Lon))
	fmt.Fprintf(&b, "Magnitud: %s<br>", domain.FormatNumber(r.Magnitude))
	fmt.Fprintf(&b, "Fecha: %s<br>", r.Date())
	if place != "" {
		fmt.Fprintf(&b, "Lugar: %s<br>", html.EscapeString(place))
	}
	return b.String()
}
