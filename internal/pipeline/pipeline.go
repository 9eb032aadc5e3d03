// Package pipeline implements the user actions of the control panel: loading
// a catalogue, rendering a year, writing its report and exporting it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/visualize"
)

// DataStore holds the loaded Dataset.
type DataStore interface {
	Load(path string) (int, error)
	FilterByYear(year int) (domain.FilteredView, error)
	Years() []int
	Loaded() bool
}

// Renderer draws a visualization of a filtered view.
type Renderer interface {
	Render(ctx context.Context, kind domain.Kind, view domain.FilteredView) (visualize.Artifact, error)
}

// ReportGenerator writes the PDF report for a filtered view.
type ReportGenerator interface {
	Generate(ctx context.Context, view domain.FilteredView) (string, error)
}

// Exporter publishes a filtered view downstream.
type Exporter interface {
	Publish(ctx context.Context, view domain.FilteredView) (int, error)
}

// Pipeline runs one action at a time, mirroring a single UI thread, and keeps
// the status label.
type Pipeline struct {
	store    DataStore
	renderer Renderer
	reports  ReportGenerator
	exporter Exporter // nil when export is disabled
	logger   *slog.Logger

	mu sync.Mutex // serialises actions

	statusMu sync.RWMutex
	status   string
}

// New creates a Pipeline. exporter may be nil.
func New(store DataStore, renderer Renderer, reports ReportGenerator, exporter Exporter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		renderer: renderer,
		reports:  reports,
		exporter: exporter,
		logger:   logger,
		status:   StatusInitial,
	}
}

// Status returns the current status label.
func (p *Pipeline) Status() string {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

func (p *Pipeline) setStatus(s string) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status = s
}

// Years returns the years available in the loaded Dataset.
func (p *Pipeline) Years() []int {
	return p.store.Years()
}

// CheckReadiness returns nil once a Dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.store.Loaded() {
		return errors.New("no dataset loaded yet")
	}
	return nil
}

// LoadData loads the spreadsheet at path. An empty path means the user chose
// no file. The returned error is non-nil only when loading failed, and is
// then a *domain.LoadError.
func (p *Pipeline) LoadData(path string) (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if strings.TrimSpace(path) == "" {
		return p.outcome(SeverityWarning, titleLoad, "No se seleccionó ningún archivo."), nil
	}

	n, err := p.store.Load(path)
	if err != nil {
		p.logger.Error("load failed", "path", path, "error", err)
		return p.outcome(SeverityError, titleLoadError,
			fmt.Sprintf("No se pudieron cargar los datos: %s", loadCause(err))), err
	}

	p.setStatus(fmt.Sprintf(statusLoaded, n))
	out := p.outcome(SeverityInfo, titleLoad, "Datos cargados correctamente.")
	out.Records = n
	out.Years = p.store.Years()
	p.logger.Info("dataset loaded", "path", path, "records", n, "years", len(out.Years))
	return out, nil
}

// ApplyFilters selects year and renders it as kind. A year with no records
// yields a warning Outcome and a nil error.
func (p *Pipeline) ApplyFilters(ctx context.Context, year int, kind domain.Kind) (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	view, out, ok := p.filter(year)
	if !ok {
		return out, nil
	}

	art, err := p.renderer.Render(ctx, kind, view)
	if err != nil {
		p.logger.Error("render failed", "kind", kind.Key(), "year", year, "error", err)
		return p.outcome(SeverityError, titleRenderError,
			fmt.Sprintf("No se pudo generar la visualización: %v", err)), err
	}

	msg := fmt.Sprintf("%s del año %d generado con %d registros.", kind.Label(), year, view.Len())
	if art.Path != "" {
		msg = fmt.Sprintf("%s guardado en %s.", kind.Label(), filepath.Base(art.Path))
	}
	out = p.outcome(SeverityInfo, titleVisualize, msg)
	out.Artifact = art.Path
	out.Records = view.Len()
	return out, nil
}

// GenerateReport writes the PDF report for year.
func (p *Pipeline) GenerateReport(ctx context.Context, year int) (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	view, out, ok := p.filter(year)
	if !ok {
		return out, nil
	}

	path, err := p.reports.Generate(ctx, view)
	if err != nil {
		p.logger.Error("report failed", "year", year, "error", err)
		return p.outcome(SeverityError, titleReportError,
			fmt.Sprintf("No se pudo generar el reporte: %v", err)), err
	}

	name := filepath.Base(path)
	p.setStatus(fmt.Sprintf(statusReport, name))
	out = p.outcome(SeverityInfo, titleReport, fmt.Sprintf("Reporte generado: %s", name))
	out.Artifact = path
	out.Records = view.Len()
	return out, nil
}

// Export publishes year's records through the Exporter. Without one it
// reports a warning.
func (p *Pipeline) Export(ctx context.Context, year int) (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.exporter == nil {
		return p.outcome(SeverityWarning, titleExport, "La exportación está deshabilitada."), nil
	}

	view, out, ok := p.filter(year)
	if !ok {
		return out, nil
	}

	n, err := p.exporter.Publish(ctx, view)
	if err != nil {
		p.logger.Error("export failed", "year", year, "error", err)
		return p.outcome(SeverityError, titleExportError,
			fmt.Sprintf("No se pudieron exportar los datos: %v", err)), err
	}

	out = p.outcome(SeverityInfo, titleExport, fmt.Sprintf("Se exportaron %d registros del año %d.", n, year))
	out.Records = n
	return out, nil
}

// filter returns the view for year, or a warning Outcome and ok=false when
// there is nothing to show.
func (p *Pipeline) filter(year int) (domain.FilteredView, Outcome, bool) {
	view, err := p.store.FilterByYear(year)
	switch {
	case err == nil:
		return view, Outcome{}, true
	case errors.Is(err, domain.ErrNoDataset):
		return view, p.outcome(SeverityWarning, titleMissing, "Primero cargue un archivo de datos de sismos."), false
	default:
		// The only other failure is an empty year.
		return view, p.outcome(SeverityWarning, titleMissing,
			fmt.Sprintf("No hay registros de sismos para el año %d.", year)), false
	}
}

func (p *Pipeline) outcome(sev Severity, title, msg string) Outcome {
	return Outcome{Severity: sev, Title: title, Message: msg, Status: p.Status()}
}

// loadCause strips the LoadError prefix so the dialog shows only the reason.
func loadCause(err error) string {
	var le *domain.LoadError
	if errors.As(err, &le) {
		return le.Err.Error()
	}
	return err.Error()
}
