package gmmetrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmdsp"
	"github.com/groundmotion/gmprocess/internal/gmfilter"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// gravityMS2 is standard gravity, used by the Arias intensity integral
// (spec §4.7: "(pi/2g) * integral of a(t)^2 dt").
const gravityMS2 = 9.80665

// PGA returns the peak ground acceleration: the maximum absolute value of
// samples (spec §4.7).
func PGA(samples []float64) float64 { return maxAbsFloat(samples) }

// PGV returns the peak ground velocity of an acceleration series: samples
// is integrated once in the time domain (zero initial velocity) and the
// peak absolute value of the result is returned.
func PGV(samples []float64, dt float64) float64 {
	vel := gmfilter.IntegrateTimeDomain(samples, dt, gmfilter.IntegrateTimeZeroInit)
	return maxAbsFloat(vel)
}

// FAS evaluates the Konno-Ohmachi-smoothed Fourier amplitude spectrum of
// samples on targetFreqs (spec §4.7).
func FAS(samples []float64, dt float64, targetFreqs []float64, bandwidth float64) []float64 {
	power := gmdsp.PowerSpectrum(samples, dt)
	amp := make([]float64, len(power.Amps))
	for i, p := range power.Amps {
		amp[i] = math.Sqrt(p)
	}
	return gmdsp.KonnoOhmachiSmooth(power.Freqs, amp, targetFreqs, bandwidth)
}

// AriasIntensity computes Ia(t) = (pi/(2g)) * integral of a(tau)^2 dtau
// from 0 to t, returned as a cumulative time series in the same units as
// samples^2*time/g (spec §4.7). AriasIntensity is also the basis
// for Duration(p1,p2): the fraction of total Arias intensity reached at
// each sample.
func AriasIntensity(samples []float64, dt float64) []float64 {
	n := len(samples)
	out := make([]float64, n)
	var running float64
	coef := math.Pi / (2 * gravityMS2)
	for i := range samples {
		running += coef * samples[i] * samples[i] * dt
		out[i] = running
	}
	return out
}

// CAV computes the cumulative absolute velocity integral(|a(t)|dt) (spec
// §4.7). When threshold > 0, samples below the threshold in absolute
// value are excluded from the sum, matching the "standardized CAV"
// variant used to de-emphasize low-amplitude noise.
func CAV(samples []float64, dt float64, threshold float64) float64 {
	var sum float64
	for _, v := range samples {
		av := math.Abs(v)
		if av < threshold {
			continue
		}
		sum += av * dt
	}
	return sum
}

// Duration returns the time in seconds between the first sample at which
// cumulative Arias intensity reaches p1 percent of its total and the
// first sample at which it reaches p2 percent (spec §4.7).
func Duration(samples []float64, dt float64, p1, p2 float64) float64 {
	return durationOf(AriasIntensity(samples, dt), dt, p1, p2)
}

// SortedDuration computes the same p1/p2 Arias-based duration but on the
// samples sorted by absolute amplitude first, matching spec §4.7's
// "sorted_duration" variant used to measure duration independent of
// arrival-time ordering.
func SortedDuration(samples []float64, dt float64, p1, p2 float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return math.Abs(sorted[i]) < math.Abs(sorted[j]) })
	return durationOf(AriasIntensity(sorted, dt), dt, p1, p2)
}

func durationOf(arias []float64, dt, p1, p2 float64) float64 {
	n := len(arias)
	if n == 0 {
		return 0
	}
	total := arias[n-1]
	if total <= 0 {
		return 0
	}
	findCrossing := func(pct float64) float64 {
		target := pct / 100.0 * total
		for i, v := range arias {
			if v >= target {
				return float64(i) * dt
			}
		}
		return float64(n-1) * dt
	}
	t1, t2 := findCrossing(p1), findCrossing(p2)
	if t2 < t1 {
		t1, t2 = t2, t1
	}
	return t2 - t1
}

// parseComponent splits a config component key like "rotd50" into its
// ComponentKind and, for RotD, the requested percentile.
func parseComponent(key string) (ComponentKind, float64, error) {
	switch {
	case key == "arithmetic_mean":
		return ComponentArithmeticMean, 0, nil
	case key == "geometric_mean":
		return ComponentGeometricMean, 0, nil
	case key == "quadratic_mean":
		return ComponentQuadraticMean, 0, nil
	case key == "channels" || key == "channel":
		return ComponentChannel, 0, nil
	case strings.HasPrefix(key, "rotd"):
		pct, err := strconv.ParseFloat(strings.TrimPrefix(key, "rotd"), 64)
		if err != nil {
			return "", 0, fmt.Errorf("gmmetrics: bad rotd component %q: %w", key, err)
		}
		return ComponentRotD, pct, nil
	default:
		return "", 0, fmt.Errorf("gmmetrics: unknown component %q", key)
	}
}

// Compute evaluates every (component, type) pair named in cfg against the
// stream's horizontal pair (and each trace individually for "channels"),
// producing one StationMetrics (spec §4.7).
func Compute(s *gmtrace.Stream, cfg gmconfig.Metrics) (StationMetrics, error) {
	sm := StationMetrics{StationID: s.StationID()}
	smoothingBandwidth := cfg.TypeParameters.SmoothingParam
	if smoothingBandwidth <= 0 {
		smoothingBandwidth = gmdsp.DefaultKonnoOhmachiBandwidth
	}

	for componentKey, types := range cfg.ComponentsAndTypes {
		component, percentile, err := parseComponent(componentKey)
		if err != nil {
			return sm, err
		}
		for _, typeName := range types {
			metrics, err := computeOne(s, component, percentile, MetricType(typeName), cfg.TypeParameters, smoothingBandwidth)
			if err != nil {
				return sm, err
			}
			sm.Metrics = append(sm.Metrics, metrics...)
		}
	}
	return sm, nil
}

func computeOne(s *gmtrace.Stream, component ComponentKind, percentile float64, mtype MetricType, tp gmconfig.TypeParameters, bandwidth float64) ([]Metric, error) {
	if component == ComponentChannel {
		var out []Metric
		for _, tr := range s.Traces {
			m, err := scalarMetricsForSeries(tr.Samples, tr.DeltaT, mtype, tp, bandwidth)
			if err != nil {
				return nil, err
			}
			for i := range m {
				m[i].Component = ComponentChannel
				m[i].Channel = tr.Channel
			}
			out = append(out, m...)
		}
		return out, nil
	}

	if component == ComponentRotD {
		h1, h2, ok := horizontalPair(s)
		if !ok {
			return nil, fmt.Errorf("gmmetrics: rotd requires two horizontal traces")
		}
		return rotdMetrics(h1.Samples, h2.Samples, h1.DeltaT, percentile, mtype, tp, bandwidth)
	}

	samples, dt, ok := ComponentSeries(s, component)
	if !ok {
		return nil, fmt.Errorf("gmmetrics: component %q requires two horizontal traces", component)
	}
	m, err := scalarMetricsForSeries(samples, dt, mtype, tp, bandwidth)
	if err != nil {
		return nil, err
	}
	for i := range m {
		m[i].Component = component
	}
	return m, nil
}

// scalarMetricsForSeries computes every value needed for mtype against a
// single time series, expanding list-valued parameters (periods,
// damping, frequencies, duration intervals) into one Metric per
// combination.
func scalarMetricsForSeries(samples []float64, dt float64, mtype MetricType, tp gmconfig.TypeParameters, bandwidth float64) ([]Metric, error) {
	switch mtype {
	case TypePGA:
		return []Metric{{Type: TypePGA, Value: PGA(samples)}}, nil
	case TypePGV:
		return []Metric{{Type: TypePGV, Value: PGV(samples, dt)}}, nil
	case TypeSA, TypePSA:
		return saMetrics(samples, dt, mtype, tp), nil
	case TypeFAS:
		return fasMetrics(samples, dt, tp, bandwidth), nil
	case TypeArias:
		arias := AriasIntensity(samples, dt)
		return []Metric{{Type: TypeArias, Value: arias[len(arias)-1]}}, nil
	case TypeCAV:
		return []Metric{{Type: TypeCAV, Value: CAV(samples, dt, 0)}}, nil
	case TypeDuration:
		return durationMetrics(samples, dt, tp.DurationIntervals, TypeDuration, func(s []float64, dt, p1, p2 float64) float64 {
			return Duration(s, dt, p1, p2)
		}), nil
	case TypeSortedDuration:
		return durationMetrics(samples, dt, tp.DurationIntervals, TypeSortedDuration, SortedDuration), nil
	default:
		return nil, fmt.Errorf("gmmetrics: unknown metric type %q", mtype)
	}
}

func saMetrics(samples []float64, dt float64, mtype MetricType, tp gmconfig.TypeParameters) []Metric {
	var out []Metric
	for _, period := range tp.SAPeriods {
		for _, damping := range tp.Damping {
			var value float64
			if mtype == TypePSA {
				value = PSA(samples, dt, period, damping)
			} else {
				_, _, peakAbsAccel := SA(samples, dt, period, damping)
				value = peakAbsAccel
			}
			out = append(out, Metric{Type: mtype, Period: period, Damping: damping, Value: value})
		}
	}
	return out
}

func fasMetrics(samples []float64, dt float64, tp gmconfig.TypeParameters, bandwidth float64) []Metric {
	freqs := tp.FASFreqs
	if len(freqs) == 0 {
		freqs = gmdsp.LogSpace(0.1, 1.0/(2*dt), 100)
	}
	values := FAS(samples, dt, freqs, bandwidth)
	out := make([]Metric, len(freqs))
	for i, f := range freqs {
		out[i] = Metric{Type: TypeFAS, Frequency: f, Value: values[i]}
	}
	return out
}

func durationMetrics(samples []float64, dt float64, intervals [][2]float64, mtype MetricType, fn func([]float64, float64, float64, float64) float64) []Metric {
	out := make([]Metric, len(intervals))
	for i, interval := range intervals {
		out[i] = Metric{Type: mtype, P1: interval[0], P2: interval[1], Value: fn(samples, dt, interval[0], interval[1])}
	}
	return out
}

func rotdMetrics(h1, h2 []float64, dt, percentile float64, mtype MetricType, tp gmconfig.TypeParameters, bandwidth float64) ([]Metric, error) {
	switch mtype {
	case TypePGA:
		v := RotDPercentile(h1, h2, percentile, PGA)
		return []Metric{{Type: TypePGA, Component: ComponentRotD, Percentile: percentile, Value: v}}, nil
	case TypePGV:
		v := RotDPercentile(h1, h2, percentile, func(s []float64) float64 { return PGV(s, dt) })
		return []Metric{{Type: TypePGV, Component: ComponentRotD, Percentile: percentile, Value: v}}, nil
	case TypeSA, TypePSA:
		var out []Metric
		for _, period := range tp.SAPeriods {
			for _, damping := range tp.Damping {
				var v float64
				if mtype == TypePSA {
					v = RotDPercentile(h1, h2, percentile, func(s []float64) float64 { return PSA(s, dt, period, damping) })
				} else {
					v = RotDPercentile(h1, h2, percentile, func(s []float64) float64 {
						_, _, peakAbsAccel := SA(s, dt, period, damping)
						return peakAbsAccel
					})
				}
				out = append(out, Metric{Type: mtype, Component: ComponentRotD, Percentile: percentile, Period: period, Damping: damping, Value: v})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("gmmetrics: rotd does not support metric type %q", mtype)
	}
}
