package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/pipeline"
)

// Controller runs the control panel actions.
type Controller interface {
	sharedobs.ReadinessChecker
	LoadData(path string) (pipeline.Outcome, error)
	ApplyFilters(ctx context.Context, year int, kind domain.Kind) (pipeline.Outcome, error)
	GenerateReport(ctx context.Context, year int) (pipeline.Outcome, error)
	Export(ctx context.Context, year int) (pipeline.Outcome, error)
	Status() string
	Years() []int
}

// PanelSource supplies the histogram currently shown in the panel.
type PanelSource interface {
	Snapshot() (png []byte, title string, ok bool)
}

// Server exposes the control panel, its JSON API, and health, readiness and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	controller Controller
	panel      PanelSource
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewServer creates the HTTP server and its routes.
func NewServer(addr string, controller Controller, panel PanelSource, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     r,
			ReadTimeout: 30 * time.Second,
			// Cluster maps with geocoding and reports can take a while.
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		controller: controller,
		panel:      panel,
		validate:   newValidator(),
		logger:     logger.With(slog.String("component", "http")),
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(controller))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/dataset", s.handleLoad)
		r.Get("/years", s.handleYears)
		r.Get("/status", s.handleStatus)
		r.Post("/visualize", s.handleVisualize)
		r.Post("/report", s.handleReport)
		r.Post("/export", s.handleExport)
		r.Get("/panel.png", s.handlePanel)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
