package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode finds the place nearest an epicentre. Offshore epicentres
// commonly return no features, which yields an empty result.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	resp, err := c.lookup(ctx, lat, lon)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		c.logger.Debug("reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		return domain.GeocodingResult{}, err
	}
	if len(resp.Features) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.GeocodingResult{}, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return resp.Features[0].result(), nil
}

// lookup queries the nearest populated place. Regions are included so
// remote epicentres still name their department.
func (c *Client) lookup(ctx context.Context, lat, lon float64) (response, error) {
	// Mapbox uses lon,lat order.
	endpoint := fmt.Sprintf("%s/%.6f,%.6f.json", c.baseURL, lon, lat)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"language":     {"es"},
		"types":        {"place,locality,region"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return response{}, fmt.Errorf("mapbox API error: status %d: %s", httpResp.StatusCode, body)
	}

	var resp response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID        string    `json:"id"` // "<type>.<n>", e.g. "place.123"
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
	Context   []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"context"`
}

func (f feature) result() domain.GeocodingResult {
	r := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		r.Lon, r.Lat = f.Center[0], f.Center[1]
	}
	if strings.HasPrefix(f.ID, "region.") {
		r.Region = f.Text
	}
	for _, ctx := range f.Context {
		if strings.HasPrefix(ctx.ID, "region.") {
			r.Region = ctx.Text
		}
	}
	return r
}
