package store_test

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/quake-report/internal/adapter/xlsx"
	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
	"github.com/couchcryptid/quake-report/internal/store"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	datasets map[string]domain.Dataset
	err      error
}

func (l *stubLoader) Load(path string) (domain.Dataset, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.datasets[path], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rec(year int, month time.Month, day int, mag float64) domain.Record {
	return domain.Record{
		Time:      time.Date(year, month, day, 12, 0, 0, 0, time.UTC),
		Lat:       -12.0,
		Lon:       -77.0,
		Magnitude: mag,
		Depth:     30,
	}
}

func TestStore_ThreeRowScenario(t *testing.T) {
	ds := domain.Dataset{rec(2020, 1, 1, 4.1), rec(2020, 6, 1, 4.7), rec(2021, 2, 1, 5.0)}
	s := store.New(&stubLoader{datasets: map[string]domain.Dataset{"a.xlsx": ds}}, discardLogger(), observability.NewMetricsForTesting())

	n, err := s.Load("a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{2020, 2021}, s.Years())

	view, err := s.FilterByYear(2020)
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.Record(ds[:2]), view.Records); diff != "" {
		t.Errorf("2020 view mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2020, view.Year)

	_, err = s.FilterByYear(2022)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	var empty *domain.EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 2022, empty.Year)
}

func TestStore_FilterBeforeLoad(t *testing.T) {
	s := store.New(&stubLoader{}, discardLogger(), observability.NewMetricsForTesting())

	_, err := s.FilterByYear(2020)
	assert.ErrorIs(t, err, domain.ErrNoDataset)
	assert.False(t, s.Loaded())
	assert.Empty(t, s.Years())
}

func TestStore_EmptyLoadIsLoadError(t *testing.T) {
	s := store.New(&stubLoader{datasets: map[string]domain.Dataset{"empty.xlsx": {}}}, discardLogger(), observability.NewMetricsForTesting())

	_, err := s.Load("empty.xlsx")
	require.Error(t, err)
	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "empty.xlsx", loadErr.Path)
	assert.ErrorIs(t, err, domain.ErrNoRows)
}

func TestStore_FailedLoadKeepsPreviousDataset(t *testing.T) {
	loader := &stubLoader{datasets: map[string]domain.Dataset{
		"first.xlsx": {rec(2019, 3, 3, 4.0)},
	}}
	s := store.New(loader, discardLogger(), observability.NewMetricsForTesting())

	_, err := s.Load("first.xlsx")
	require.NoError(t, err)

	loader.err = errors.New("corrupt zip")
	_, err = s.Load("second.xlsx")
	require.Error(t, err)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "first.xlsx", s.Source())
	view, err := s.FilterByYear(2019)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Len())
}

func TestStore_ReloadReplacesDataset(t *testing.T) {
	loader := &stubLoader{datasets: map[string]domain.Dataset{
		"a.xlsx": {rec(2019, 1, 1, 4.0), rec(2019, 1, 2, 4.2)},
		"b.xlsx": {rec(2023, 5, 5, 6.1)},
	}}
	s := store.New(loader, discardLogger(), observability.NewMetricsForTesting())

	_, err := s.Load("a.xlsx")
	require.NoError(t, err)
	_, err = s.Load("b.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []int{2023}, s.Years())
	_, err = s.FilterByYear(2019)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Equal(t, []domain.YearCount{{Year: 2023, Count: 1}}, s.Summary())
}

func TestStore_LoadWorkbook(t *testing.T) {
	records := []domain.Record{rec(2020, 1, 1, 4.1), rec(2020, 6, 1, 4.7), rec(2021, 2, 1, 5.0)}
	path := filepath.Join(t.TempDir(), "catalogo.xlsx")
	require.NoError(t, xlsx.WriteWorkbook(path, records))

	s := store.New(xlsx.NewReader(discardLogger()), discardLogger(), observability.NewMetricsForTesting())
	n, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	view, err := s.FilterByYear(2021)
	require.NoError(t, err)
	require.Len(t, view.Records, 1)
	assert.Equal(t, 5.0, view.Records[0].Magnitude)
}
