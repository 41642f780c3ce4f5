package gmmetrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// horizontalPair locates the two horizontal traces of a stream (spec
// §4.7's component combinations all operate on the horizontal pair except
// ComponentChannel, which is per-trace).
func horizontalPair(s *gmtrace.Stream) (h1, h2 *gmtrace.Trace, ok bool) {
	hz := s.Horizontals()
	if len(hz) < 2 {
		return nil, nil, false
	}
	return hz[0], hz[1], true
}

// combinedSeries applies a scalar reducer sample-by-sample across two
// equal-length horizontal series, implementing arithmetic_mean,
// geometric_mean, and quadratic_mean (spec §4.7).
func combinedSeries(a, b []float64, reduce func(x, y float64) float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = reduce(a[i], b[i])
	}
	return out
}

func arithmeticMean(x, y float64) float64 { return (x + y) / 2 }
func geometricMean(x, y float64) float64 {
	return math.Sqrt(math.Abs(x) * math.Abs(y))
}
func quadraticMean(x, y float64) float64 {
	return math.Sqrt((x*x + y*y) / 2)
}

// ComponentSeries returns the time series (and common dt) for a single
// component combination, evaluated peak-style: for arithmetic/geometric/
// quadratic mean the reducer is applied sample-by-sample first, matching
// how most strong-motion processing software forms "combined horizontal"
// series before peak or oscillator metrics are computed from them.
func ComponentSeries(s *gmtrace.Stream, component ComponentKind) (samples []float64, dt float64, ok bool) {
	h1, h2, found := horizontalPair(s)
	if !found {
		return nil, 0, false
	}
	dt = h1.DeltaT
	switch component {
	case ComponentArithmeticMean:
		return combinedSeries(h1.Samples, h2.Samples, arithmeticMean), dt, true
	case ComponentGeometricMean:
		return combinedSeries(h1.Samples, h2.Samples, geometricMean), dt, true
	case ComponentQuadraticMean:
		return combinedSeries(h1.Samples, h2.Samples, quadraticMean), dt, true
	default:
		return nil, 0, false
	}
}

// rotatedSeries rotates the horizontal pair (h1, h2) through angle theta
// (radians, measured from h1's axis) and returns the rotated component
// along that new axis: r(t) = h1(t)*cos(theta) + h2(t)*sin(theta). RotD
// (Boore 2010) evaluates a scalar metric (e.g. peak absolute value, or
// SDOF response) at every rotation angle on a fine grid and reports a
// percentile across those per-angle values, which is rotation-invariant
// because it never depends on the stations' original sensor azimuths.
func rotatedSeries(h1, h2 []float64, theta float64) []float64 {
	n := len(h1)
	if len(h2) < n {
		n = len(h2)
	}
	cos, sin := math.Cos(theta), math.Sin(theta)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = h1[i]*cos + h2[i]*sin
	}
	return out
}

// rotDGridDegrees is the rotation-angle step used for the RotD scan
// (spec §4.7: "a fine rotation grid, e.g. delta-theta=1 degree"). RotD
// values are symmetric about 180 degrees for even scalar functions of a
// linear combination (peak absolute value, oscillator peak response), so
// scanning 0-179 degrees is sufficient.
const rotDGridDegrees = 1.0

// RotDPercentile evaluates scalarMetric(rotated-series) at every angle on
// the RotD grid and returns the requested percentile (0-100) of the
// resulting distribution (spec §4.7, property 8: rotation invariance).
func RotDPercentile(h1, h2 []float64, percentile float64, scalarMetric func([]float64) float64) float64 {
	n := int(180.0 / rotDGridDegrees)
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		theta := float64(i) * rotDGridDegrees * math.Pi / 180.0
		rotated := rotatedSeries(h1, h2, theta)
		values = append(values, scalarMetric(rotated))
	}
	sort.Float64s(values)
	return stat.Quantile(percentile/100.0, stat.Empirical, values, nil)
}
