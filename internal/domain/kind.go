package domain

import (
	"fmt"
	"strings"
)

// Kind selects one of the four visualizations.
type Kind int

const (
	KindClusterMap Kind = iota + 1
	KindHeatMap
	KindMagnitudeHistogram
	KindDepthHistogram
)

// Kinds lists every visualization in selector order.
var Kinds = []Kind{KindClusterMap, KindHeatMap, KindMagnitudeHistogram, KindDepthHistogram}

// ParseKind maps a selector value (either the short key or the Spanish label
// shown in the UI) to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds {
		if strings.EqualFold(s, k.Key()) || s == k.Label() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Key is the short machine-readable selector value.
func (k Kind) Key() string {
	switch k {
	case KindClusterMap:
		return "cluster"
	case KindHeatMap:
		return "heat"
	case KindMagnitudeHistogram:
		return "magnitude"
	case KindDepthHistogram:
		return "depth"
	default:
		return ""
	}
}

// Label is the text shown in the visualization selector.
func (k Kind) Label() string {
	switch k {
	case KindClusterMap:
		return "Mapa con Clústeres"
	case KindHeatMap:
		return "Mapa de Calor"
	case KindMagnitudeHistogram:
		return "Histograma de Magnitudes"
	case KindDepthHistogram:
		return "Distribución de Profundidades"
	default:
		return ""
	}
}

// Field returns the column a histogram kind plots; ok is false for maps.
func (k Kind) Field() (f Field, ok bool) {
	switch k {
	case KindMagnitudeHistogram:
		return FieldMagnitude, true
	case KindDepthHistogram:
		return FieldDepth, true
	default:
		return 0, false
	}
}

func (k Kind) String() string {
	if key := k.Key(); key != "" {
		return key
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is a numeric record attribute that can be plotted.
type Field int

const (
	FieldMagnitude Field = iota + 1
	FieldDepth
)

// Column is the spreadsheet header holding the field.
func (f Field) Column() string {
	switch f {
	case FieldMagnitude:
		return "MAGNITUD"
	case FieldDepth:
		return "PROFUNDIDAD"
	default:
		return ""
	}
}

// Name is the capitalised column name used in titles and axis labels.
func (f Field) Name() string {
	switch f {
	case FieldMagnitude:
		return "Magnitud"
	case FieldDepth:
		return "Profundidad"
	default:
		return ""
	}
}

// Value extracts the field from a record.
func (f Field) Value(r Record) float64 {
	switch f {
	case FieldMagnitude:
		return r.Magnitude
	case FieldDepth:
		return r.Depth
	default:
		return 0
	}
}

// Values extracts the field from every record in order.
func (f Field) Values(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = f.Value(r)
	}
	return out
}
