package mapbox

import (
	"container/list"
	"context"
	"math"
	"sync"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

// cellsPerDegree sets the cache grid. One cell is about 1.1 km, well inside
// the smallest locality Mapbox returns for a reverse lookup.
const cellsPerDegree = 100

// cell is a grid square of the epicentre map.
type cell struct {
	lat, lon int32
}

func cellOf(lat, lon float64) cell {
	return cell{
		lat: int32(math.Round(lat * cellsPerDegree)),
		lon: int32(math.Round(lon * cellsPerDegree)),
	}
}

// CachedGeocoder answers reverse lookups per grid cell. Aftershock sequences
// and repeat ruptures put many epicentres in the same cell, and trench events
// fall in open ocean where Mapbox never has a place, so empty answers are
// kept as well.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *cellCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator holding at most maxCells cells.
func NewCachedGeocoder(inner domain.Geocoder, maxCells int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newCellCache(maxCells),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := cellOf(lat, lon)
	if result, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()
	result, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	c.cache.put(key, result)
	return result, nil
}

// cellCache is a thread-safe LRU of geocoding results by cell.
type cellCache struct {
	maxCells int
	mu       sync.Mutex
	order    *list.List // front is most recently used
	cells    map[cell]*list.Element
}

type cellEntry struct {
	key    cell
	result domain.GeocodingResult
}

func newCellCache(maxCells int) *cellCache {
	return &cellCache{
		maxCells: max(maxCells, 1),
		order:    list.New(),
		cells:    make(map[cell]*list.Element),
	}
}

func (c *cellCache) get(key cell) (domain.GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.cells[key]
	if !ok {
		return domain.GeocodingResult{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cellEntry).result, true
}

func (c *cellCache) put(key cell, result domain.GeocodingResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.cells[key]; ok {
		el.Value.(*cellEntry).result = result
		c.order.MoveToFront(el)
		return
	}
	c.cells[key] = c.order.PushFront(&cellEntry{key: key, result: result})

	for c.order.Len() > c.maxCells {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.cells, oldest.Value.(*cellEntry).key)
	}
}

func (c *cellCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
