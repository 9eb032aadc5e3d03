package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the fixed bin count for every histogram.
const DefaultBins = 20

// densityPoints is the resolution of the KDE curve.
const densityPoints = 200

// Bin is one equal-width histogram bucket. The last bin of a histogram is
// closed on the right so the maximum value is counted.
type Bin struct {
	Min   float64
	Max   float64
	Count int
}

// BinValues partitions values into n equal-width bins spanning their range.
// A degenerate range [v, v] is widened to [v-0.5, v+0.5]; an empty input uses
// [0, 1]. The result always has exactly n bins for n > 0.
func BinValues(values []float64, n int) []Bin {
	if n <= 0 {
		n = DefaultBins
	}
	lo, hi := valueRange(values)
	width := (hi - lo) / float64(n)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	bins[n-1].Max = hi

	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Count++
	}
	return bins
}

func valueRange(values []float64) (float64, float64) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, 1
	}
	lo, hi := floats.Min(clean), floats.Max(clean)
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

// DensityCurve evaluates a Gaussian kernel density estimate of values across
// [lo, hi], scaled by len(values)*binWidth so it overlays a count histogram.
// Bandwidth follows Scott's rule. It returns nil when the sample has fewer
// than two distinct values, since no spread can be estimated.
func DensityCurve(values []float64, lo, hi, binWidth float64) (xs, ys []float64) {
	n := float64(len(values))
	if len(values) < 2 {
		return nil, nil
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, nil
	}
	bw := sd * math.Pow(n, -1.0/5.0)

	xs = make([]float64, densityPoints)
	ys = make([]float64, densityPoints)
	floats.Span(xs, lo, hi)

	norm := 1 / (n * bw * math.Sqrt(2*math.Pi))
	scale := n * binWidth
	for i, x := range xs {
		var sum float64
		for _, v := range values {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		ys[i] = sum * norm * scale
	}
	return xs, ys
}
