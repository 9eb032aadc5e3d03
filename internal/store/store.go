// Package store holds the loaded seismic Dataset and answers year queries.
package store

import (
	"log/slog"
	"sync"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

// Loader parses a file into a Dataset.
type Loader interface {
	Load(path string) (domain.Dataset, error)
}

// Store owns the current Dataset. A successful Load replaces it wholesale;
// readers only ever see a complete Dataset.
type Store struct {
	loader  Loader
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.RWMutex
	data   domain.Dataset
	source string
}

// New creates an empty Store.
func New(loader Loader, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		loader:  loader,
		logger:  logger.With("component", "store"),
		metrics: metrics,
	}
}

// Load parses the file at path and, on success, replaces the held Dataset and
// returns its size. Any failure, including an empty file, is returned as a
// *domain.LoadError and leaves the previous Dataset in place.
func (s *Store) Load(path string) (int, error) {
	ds, err := s.loader.Load(path)
	if err == nil && len(ds) == 0 {
		err = domain.ErrNoRows
	}
	if err != nil {
		s.metrics.LoadErrors.Inc()
		s.logger.Warn("dataset load failed", "path", path, "error", err)
		return 0, &domain.LoadError{Path: path, Err: err}
	}

	s.mu.Lock()
	s.data = ds
	s.source = path
	s.mu.Unlock()

	s.metrics.DatasetsLoaded.Inc()
	s.metrics.RecordsLoaded.Set(float64(len(ds)))
	s.metrics.DatasetReady.Set(1)
	s.logger.Info("dataset loaded", "path", path, "records", len(ds))
	return len(ds), nil
}

// FilterByYear returns the records in year, in file order. It returns
// domain.ErrNoDataset before the first successful Load and a
// *domain.EmptyResultError when the year has no records.
func (s *Store) FilterByYear(year int) (domain.FilteredView, error) {
	s.mu.RLock()
	ds := s.data
	s.mu.RUnlock()

	if ds == nil {
		return domain.FilteredView{}, domain.ErrNoDataset
	}
	view, err := domain.FilterByYear(ds, year)
	if err != nil {
		s.metrics.EmptyResults.Inc()
		return domain.FilteredView{}, err
	}
	return view, nil
}

// Years lists the distinct years in the current Dataset, ascending.
func (s *Store) Years() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Years(s.data)
}

// Summary returns per-year record counts for the current Dataset.
func (s *Store) Summary() []domain.YearCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CountByYear(s.data)
}

// Len returns the size of the current Dataset.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Loaded reports whether a Dataset is held.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// Source returns the path of the file the current Dataset came from.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
