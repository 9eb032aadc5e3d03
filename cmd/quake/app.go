package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jonboulle/clockwork"

	kafkaadapter "github.com/couchcryptid/quake-report/internal/adapter/kafka"
	"github.com/couchcryptid/quake-report/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-report/internal/adapter/opener"
	"github.com/couchcryptid/quake-report/internal/adapter/pdf"
	"github.com/couchcryptid/quake-report/internal/adapter/xlsx"
	"github.com/couchcryptid/quake-report/internal/config"
	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
	"github.com/couchcryptid/quake-report/internal/pipeline"
	"github.com/couchcryptid/quake-report/internal/report"
	"github.com/couchcryptid/quake-report/internal/store"
	"github.com/couchcryptid/quake-report/internal/visualize"
)

// metrics registers with the default Prometheus registry exactly once per
// process.
var metrics = sync.OnceValue(observability.NewMetrics)

// artifactOpener opens generated files and the control panel URL.
type artifactOpener interface {
	Open(ctx context.Context, path string) error
	OpenURL(ctx context.Context, url string) error
}

// app is the wired component graph shared by every subcommand.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	opener     artifactOpener
	store      *store.Store
	panel      *visualize.Panel
	visualizer *visualize.Visualizer
	reports    *report.Generator
	writer     *kafkaadapter.Writer // nil unless export is enabled
	pipeline   *pipeline.Pipeline
}

// newApp loads configuration and wires the components. forceExport builds
// the Kafka writer even when KAFKA_ENABLED is false.
func newApp(forceExport bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)
	m := metrics()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var open artifactOpener = opener.Noop{}
	if cfg.OpenArtifacts {
		open = opener.NewSystem(logger.With("component", "opener"))
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, m, logger.With("component", "mapbox"))
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, m)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Debug("mapbox geocoding disabled")
	}

	a := &app{cfg: cfg, logger: logger, opener: open}
	a.store = store.New(xlsx.NewReader(logger.With("component", "xlsx")), logger.With("component", "store"), m)
	a.panel = visualize.NewPanel()
	a.visualizer = visualize.New(visualize.Options{
		OutputDir: cfg.OutputDir,
		CenterLat: cfg.MapCenterLat,
		CenterLon: cfg.MapCenterLon,
		Zoom:      cfg.MapZoom,
	}, open, geocoder, a.panel, m, logger.With("component", "visualize"))
	a.reports = report.NewGenerator(cfg.OutputDir, func() report.Document { return pdf.New() },
		open, clockwork.NewRealClock(), m, logger.With("component", "report"))

	var exporter pipeline.Exporter
	if cfg.KafkaEnabled || forceExport {
		a.writer = kafkaadapter.NewWriter(cfg, m, logger.With("component", "kafka"))
		exporter = a.writer
	}
	a.pipeline = pipeline.New(a.store, a.visualizer, a.reports, exporter, logger.With("component", "pipeline"))
	return a, nil
}

func (a *app) close() {
	if a.writer == nil {
		return
	}
	if err := a.writer.Close(); err != nil {
		a.logger.Error("kafka writer close error", "error", err)
	}
}
