// Package leaflet writes standalone Leaflet map pages.
package leaflet

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

//go:embed map.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("map").Parse(pageSource))

// Layer selects how points are drawn.
type Layer int

const (
	LayerCluster Layer = iota + 1
	LayerHeat
)

// Marker is a clustered point with an HTML popup.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// Page describes one map document.
type Page struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Layer     Layer
	Markers   []Marker     // LayerCluster
	Points    [][2]float64 // LayerHeat, [lat, lon]
}

type pageData struct {
	Title       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	Cluster     bool
	MarkersJSON template.JS
	PointsJSON  template.JS
}

// Render writes the page as a self-contained HTML document.
func Render(w io.Writer, p Page) error {
	if p.Layer != LayerCluster && p.Layer != LayerHeat {
		return fmt.Errorf("render map: unknown layer %d", p.Layer)
	}

	markers := p.Markers
	if markers == nil {
		markers = []Marker{}
	}
	markersJSON, err := marshalJS(markers)
	if err != nil {
		return fmt.Errorf("marshal markers: %w", err)
	}
	points := p.Points
	if points == nil {
		points = [][2]float64{}
	}
	pointsJSON, err := marshalJS(points)
	if err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}

	data := pageData{
		Title:       p.Title,
		CenterLat:   p.CenterLat,
		CenterLon:   p.CenterLon,
		Zoom:        p.Zoom,
		Cluster:     p.Layer == LayerCluster,
		MarkersJSON: markersJSON,
		PointsJSON:  pointsJSON,
	}

	// Render to a buffer so a template failure leaves w untouched.
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute map template: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}

// marshalJS encodes v as a JavaScript literal. json.Marshal escapes <, > and &
// so popup markup cannot close the surrounding script element.
func marshalJS(v any) (template.JS, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(payload), nil
}
