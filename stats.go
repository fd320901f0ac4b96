package reservoir

import (
	"sort"

	"github.com/GaryBoone/GoStats/stats"
)

// Summary describes one coordinate axis of a point set.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

type Stats struct {
	X Summary `json:"x"`
	Y Summary `json:"y"`
	Z Summary `json:"z"`
}

// Describe summarises the X, Y and Z columns of points. The standard
// deviation is the sample one and is zero for a single point.
func Describe(points []ControlPoint) Stats {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return Stats{X: summarize(xs), Y: summarize(ys), Z: summarize(zs)}
}

func summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	var d stats.Stats
	d.UpdateArray(data)

	s := Summary{
		Count: d.Count(),
		Mean:  d.Mean(),
		Min:   d.Min(),
		Max:   d.Max(),
	}
	if s.Count > 1 {
		s.Std = d.SampleStandardDeviation()
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	s.Q25 = quantile(0.25, sorted)
	s.Q50 = quantile(0.5, sorted)
	s.Q75 = quantile(0.75, sorted)
	return s
}

// quantile interpolates linearly between order statistics (the
// spreadsheet definition).
func quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return sorted[n-1]
	}
	return Lerp(sorted[lo], sorted[lo+1], pos-float64(lo))
}

// Spread is the depth range of the points.
func (s Stats) Spread() float64 {
	return s.Z.Max - s.Z.Min
}
