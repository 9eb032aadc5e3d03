// Package report builds the yearly PDF summary of seismic events.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"gonum.org/v1/plot"

	"github.com/couchcryptid/quake-report/internal/chart"
	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

// Document is the page model a report is written into.
type Document interface {
	Heading(text string)
	Caption(text string)
	Line(text string)
	Image(path string) error
	Save(path string) error
}

// Opener hands the finished PDF to an external viewer.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Generator writes Reporte_Sismos_<year>.pdf files.
type Generator struct {
	outputDir string
	newDoc    func() Document
	opener    Opener
	clock     clockwork.Clock
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewGenerator creates a Generator. newDoc is called once per report.
func NewGenerator(outputDir string, newDoc func() Document, opener Opener, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Generator {
	return &Generator{
		outputDir: outputDir,
		newDoc:    newDoc,
		opener:    opener,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate writes the report for view and opens it. The report holds a
// heading, a generation caption, one line per record, and a two-panel
// magnitude/depth histogram figure.
func (g *Generator) Generate(ctx context.Context, view domain.FilteredView) (string, error) {
	start := g.clock.Now()
	path, err := g.generate(view)
	g.metrics.ReportDuration.Observe(g.clock.Since(start).Seconds())
	if err != nil {
		g.metrics.ReportsGenerated.WithLabelValues("error").Inc()
		return "", err
	}
	g.metrics.ReportsGenerated.WithLabelValues("success").Inc()
	g.logger.Info("report written", "path", path, "year", view.Year, "records", view.Len())

	if err := g.opener.Open(ctx, path); err != nil {
		g.logger.Warn("could not open report", "path", path, "error", err)
	}
	return path, nil
}

func (g *Generator) generate(view domain.FilteredView) (string, error) {
	figure, err := os.CreateTemp("", "quake-figure-*.png")
	if err != nil {
		return "", fmt.Errorf("create figure file: %w", err)
	}
	defer os.Remove(figure.Name())

	if err := writeFigure(figure, view); err != nil {
		figure.Close()
		return "", err
	}
	if err := figure.Close(); err != nil {
		return "", fmt.Errorf("close figure file: %w", err)
	}

	doc := g.newDoc()
	doc.Heading(fmt.Sprintf("Reporte de Sismos en Perú - Año %d", view.Year))
	doc.Caption(fmt.Sprintf("Generado el %s - %d registros", g.clock.Now().UTC().Format(time.DateTime+" MST"), view.Len()))
	for _, r := range view.Records {
		doc.Line(Line(r))
	}
	if err := doc.Image(figure.Name()); err != nil {
		return "", err
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("Reporte_Sismos_%d.pdf", view.Year))
	if err := doc.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

func writeFigure(f *os.File, view domain.FilteredView) error {
	mags, err := chart.Histogram(domain.FieldMagnitude.Values(view.Records),
		fmt.Sprintf("Histograma de Magnitudes de Sismos en %d", view.Year), "Magnitud")
	if err != nil {
		return fmt.Errorf("build magnitude histogram: %w", err)
	}
	depths, err := chart.Histogram(domain.FieldDepth.Values(view.Records),
		fmt.Sprintf("Distribución de Profundidades de Sismos en %d", view.Year), "Profundidad (km)")
	if err != nil {
		return fmt.Errorf("build depth histogram: %w", err)
	}
	return chart.WritePanels(f, []*plot.Plot{mags, depths}, chart.PanelWidth, chart.PanelHeight)
}

// Line formats one record as a report body line.
func Line(r domain.Record) string {
	return fmt.Sprintf("Fecha: %s - Latitud: %s - Longitud: %s - Magnitud: %s - Profundidad: %s km",
		r.Date(),
		domain.FormatNumber(r.Lat),
		domain.FormatNumber(r.Lon),
		domain.FormatNumber(r.Magnitude),
		domain.FormatNumber(r.Depth))
}
